// Package ir holds the ordered JSON document model used for artifact
// entries and persisted baselines. Object field order is preserved
// exactly as parsed or constructed, and integer and floating point
// numbers are kept distinct.
package ir

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

type Node struct {
	Type Type

	// Fields holds object keys in document order; Values holds the
	// object or array values, aligned with Fields for objects.
	Fields []string
	Values []*Node

	String string
	Bool   bool

	// Number is the raw literal as it appeared in the source. Int64 is
	// set for literals representable as 64-bit signed integers, Float64
	// otherwise. Literals representable as neither keep only Number.
	Number  string
	Int64   *int64
	Float64 *float64
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:   NumberType,
		Number: strconv.FormatInt(v, 10),
		Int64:  &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

// FromNumber interprets a raw JSON number literal.
func FromNumber(lit string) *Node {
	res := &Node{Type: NumberType, Number: lit}
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		res.Int64 = &i
		return res
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		res.Float64 = &f
	}
	return res
}

func FromSlice(vs []*Node) *Node {
	res := &Node{Type: ArrayType}
	res.Values = make([]*Node, len(vs))
	copy(res.Values, vs)
	return res
}

// FromMap builds an object node with keys in sorted order.
func FromMap(m map[string]*Node) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = slices.Sorted(maps.Keys(m))
	res.Values = make([]*Node, len(res.Fields))
	for i, k := range res.Fields {
		res.Values[i] = m[k]
	}
	return res
}

// Get returns the value under field, or nil if absent. Only meaningful
// for object nodes.
func (y *Node) Get(field string) *Node {
	for i := range y.Fields {
		if y.Fields[i] == field {
			return y.Values[i]
		}
	}
	return nil
}

func (y *Node) Clone() *Node {
	res := &Node{
		Type:   y.Type,
		String: y.String,
		Bool:   y.Bool,
		Number: y.Number,
	}
	if y.Int64 != nil {
		i := *y.Int64
		res.Int64 = &i
	}
	if y.Float64 != nil {
		f := *y.Float64
		res.Float64 = &f
	}
	if y.Fields != nil {
		res.Fields = make([]string, len(y.Fields))
		copy(res.Fields, y.Fields)
	}
	if y.Values != nil {
		res.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			res.Values[i] = v.Clone()
		}
	}
	return res
}

// FromAny converts a Go value to a node. Known scalar, slice, and map
// shapes convert directly; anything else goes through encoding/json, so
// any json-marshalable value is accepted. Map keys come out sorted.
func FromAny(v any) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return t, nil
	case bool:
		return FromBool(t), nil
	case string:
		return FromString(t), nil
	case int:
		return FromInt(int64(t)), nil
	case int8:
		return FromInt(int64(t)), nil
	case int16:
		return FromInt(int64(t)), nil
	case int32:
		return FromInt(int64(t)), nil
	case int64:
		return FromInt(t), nil
	case uint:
		return fromUint(uint64(t)), nil
	case uint8:
		return fromUint(uint64(t)), nil
	case uint16:
		return fromUint(uint64(t)), nil
	case uint32:
		return fromUint(uint64(t)), nil
	case uint64:
		return fromUint(t), nil
	case float32:
		return FromFloat(float64(t)), nil
	case float64:
		return FromFloat(t), nil
	case json.Number:
		return FromNumber(t.String()), nil
	case []*Node:
		return FromSlice(t), nil
	case []any:
		vs := make([]*Node, len(t))
		for i, e := range t {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			vs[i] = n
		}
		return FromSlice(vs), nil
	case map[string]any:
		m := make(map[string]*Node, len(t))
		for k, e := range t {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return FromMap(m), nil
	default:
		d, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %T: %w", v, err)
		}
		return Parse(d)
	}
}

func fromUint(u uint64) *Node {
	if u <= 1<<63-1 {
		return FromInt(int64(u))
	}
	return FromNumber(strconv.FormatUint(u, 10))
}
