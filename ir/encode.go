package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the node as a native JSON value, not a
// type-tagged envelope, so baselines stay human-diffable. Object field
// order is written as held.
func (y *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeTo(&buf, y); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (y *Node) UnmarshalJSON(d []byte) error {
	n, err := Parse(d)
	if err != nil {
		return err
	}
	*y = *n
	return nil
}

// EncodeIndent renders the node as pretty-printed JSON.
func EncodeIndent(y *Node) ([]byte, error) {
	d, err := y.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, d, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeTo(buf *bytes.Buffer, y *Node) error {
	switch y.Type {
	case NullType:
		buf.WriteString("null")
	case BoolType:
		if y.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case NumberType:
		lit, err := numberLiteral(y)
		if err != nil {
			return err
		}
		buf.WriteString(lit)
	case StringType:
		d, err := json.Marshal(y.String)
		if err != nil {
			return err
		}
		buf.Write(d)
	case ArrayType:
		buf.WriteByte('[')
		for i, v := range y.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeTo(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ObjectType:
		buf.WriteByte('{')
		for i, k := range y.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			kd, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kd)
			buf.WriteByte(':')
			if err := encodeTo(buf, y.Values[i]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode type %s", y.Type)
	}
	return nil
}

func numberLiteral(y *Node) (string, error) {
	if y.Number != "" {
		return y.Number, nil
	}
	switch {
	case y.Int64 != nil:
		d, err := json.Marshal(*y.Int64)
		return string(d), err
	case y.Float64 != nil:
		d, err := json.Marshal(*y.Float64)
		if err != nil {
			return "", fmt.Errorf("cannot encode number: %w", err)
		}
		return string(d), nil
	}
	return "", fmt.Errorf("number node with no value")
}
