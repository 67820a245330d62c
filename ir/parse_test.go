package ir

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		check func(t *testing.T, y *Node)
	}{
		{"null", `null`, func(t *testing.T, y *Node) {
			if y.Type != NullType {
				t.Errorf("got %s, want Null", y.Type)
			}
		}},
		{"bool", `true`, func(t *testing.T, y *Node) {
			if y.Type != BoolType || !y.Bool {
				t.Errorf("got %s %v", y.Type, y.Bool)
			}
		}},
		{"int", `5`, func(t *testing.T, y *Node) {
			if y.Int64 == nil || *y.Int64 != 5 {
				t.Errorf("want Int64 5, got %+v", y)
			}
			if y.Float64 != nil {
				t.Errorf("int literal must not set Float64")
			}
		}},
		{"float", `5.0`, func(t *testing.T, y *Node) {
			if y.Float64 == nil || *y.Float64 != 5.0 {
				t.Errorf("want Float64 5.0, got %+v", y)
			}
			if y.Int64 != nil {
				t.Errorf("float literal must not set Int64")
			}
		}},
		{"huge literal", `1e999`, func(t *testing.T, y *Node) {
			if y.Type != NumberType || y.Int64 != nil || y.Float64 != nil {
				t.Errorf("want raw-literal number, got %+v", y)
			}
			if y.Number != "1e999" {
				t.Errorf("raw literal not kept: %q", y.Number)
			}
		}},
		{"string", `"hi"`, func(t *testing.T, y *Node) {
			if y.Type != StringType || y.String != "hi" {
				t.Errorf("got %s %q", y.Type, y.String)
			}
		}},
		{"array", `[1, "two", null]`, func(t *testing.T, y *Node) {
			if y.Type != ArrayType || len(y.Values) != 3 {
				t.Fatalf("got %s with %d values", y.Type, len(y.Values))
			}
			if y.Values[1].String != "two" {
				t.Errorf("element order lost")
			}
		}},
		{"object order preserved", `{"b": 1, "a": 2}`, func(t *testing.T, y *Node) {
			if y.Type != ObjectType {
				t.Fatalf("got %s", y.Type)
			}
			if y.Fields[0] != "b" || y.Fields[1] != "a" {
				t.Errorf("field order lost: %v", y.Fields)
			}
			if v := y.Get("a"); v == nil || *v.Int64 != 2 {
				t.Errorf("Get(a) = %+v", v)
			}
		}},
		{"nested", `{"o": {"k": [1.5]}}`, func(t *testing.T, y *Node) {
			inner := y.Get("o").Get("k")
			if inner.Type != ArrayType || inner.Values[0].Float64 == nil {
				t.Errorf("nested structure lost: %+v", inner)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			tt.check(t, y)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, doc := range []string{``, `{`, `[1,]`, `1 2`, `{"a"}`} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("Parse(%q) should fail", doc)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	docs := []string{
		`null`,
		`false`,
		`42`,
		`-0.25`,
		`"a\nb"`,
		`[]`,
		`{}`,
		`{"z": [1, 2.5, "three", {"deep": null}], "a": true}`,
	}
	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			y, err := Parse([]byte(doc))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			d, err := EncodeIndent(y)
			if err != nil {
				t.Fatalf("EncodeIndent() error: %v", err)
			}
			back, err := Parse(d)
			if err != nil {
				t.Fatalf("reparse error: %v", err)
			}
			if !Equal(y, back) {
				t.Errorf("round trip changed the document:\n%s", d)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Node
		expected bool
	}{
		{"null == null", Null(), Null(), true},
		{"null != bool", Null(), FromBool(false), false},
		{"int exact", FromInt(5), FromInt(5), true},
		{"int exact fail", FromInt(5), FromInt(6), false},
		{"int vs float as floats", FromInt(1), FromFloat(1.0), true},
		{"float vs float", FromFloat(1.5), FromFloat(1.5), true},
		{"raw literal", FromNumber("1e999"), FromNumber("1e999"), true},
		{"string", FromString("a"), FromString("a"), true},
		{"array order matters", FromSlice([]*Node{FromInt(1), FromInt(2)}), FromSlice([]*Node{FromInt(2), FromInt(1)}), false},
		{"object field order matters",
			&Node{Type: ObjectType, Fields: []string{"a", "b"}, Values: []*Node{FromInt(1), FromInt(2)}},
			&Node{Type: ObjectType, Fields: []string{"b", "a"}, Values: []*Node{FromInt(2), FromInt(1)}},
			false},
		{"object equal",
			FromMap(map[string]*Node{"a": FromInt(1)}),
			FromMap(map[string]*Node{"a": FromInt(1)}),
			true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.expected {
				t.Errorf("Equal() = %v, want %v", got, tt.expected)
			}
			if got := Equal(tt.b, tt.a); got != tt.expected {
				t.Errorf("Equal(b, a) = %v, want %v", got, tt.expected)
			}
		})
	}
}
