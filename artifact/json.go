package artifact

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/signadot/egress/ir"
)

// The persisted form is a plain JSON document: an artifact is an
// object of key to entry, an entry is a single-field object tagged by
// kind ({"str": ...}, {"bytes": "<base64>"}, {"json": ...},
// {"artifact": {...}}). It round-trips exactly through this model.

func (a *Artifact) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kd, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kd)
		buf.WriteByte(':')
		ed, err := json.Marshal(a.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(ed)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *Artifact) UnmarshalJSON(d []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(d, &raw); err != nil {
		return err
	}
	res := New()
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		var e Entry
		if err := e.UnmarshalJSON(raw[k]); err != nil {
			return fmt.Errorf("entry %q: %w", k, err)
		}
		if err := res.Insert(k, e); err != nil {
			return err
		}
	}
	*a = *res
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case KindString:
		return tagged("str", e.Str)
	case KindBytes:
		return tagged("bytes", base64.StdEncoding.EncodeToString(e.Bytes))
	case KindJSON:
		y := e.JSON
		if y == nil {
			y = ir.Null()
		}
		return tagged("json", y)
	case KindArtifact:
		a := e.Artifact
		if a == nil {
			a = New()
		}
		return tagged("artifact", a)
	}
	return nil, fmt.Errorf("cannot encode entry kind %d", e.Kind)
}

func tagged(tag string, v any) ([]byte, error) {
	d, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(append([]byte(`{"`+tag+`":`), d...), '}'), nil
}

func (e *Entry) UnmarshalJSON(d []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(d, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("entry must have exactly one kind tag, got %d", len(raw))
	}
	for tag, val := range raw {
		switch tag {
		case "str":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return err
			}
			*e = FromString(s)
		case "bytes":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return err
			}
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return fmt.Errorf("bytes entry: %w", err)
			}
			*e = FromBytes(b)
		case "json":
			y, err := ir.Parse(val)
			if err != nil {
				return err
			}
			*e = FromJSON(y)
		case "artifact":
			child := New()
			if err := json.Unmarshal(val, child); err != nil {
				return err
			}
			*e = FromArtifact(child)
		default:
			return fmt.Errorf("unrecognized entry tag %q", tag)
		}
	}
	return nil
}
