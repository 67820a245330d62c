// Package artifact holds the tree-structured data model recorded by
// tests: uniquely-keyed Artifacts of tagged Entry values, and the
// Mismatch records produced when a tree is compared against its stored
// baseline.
package artifact

import (
	"bytes"
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/egress/ir"
)

type Kind int

const (
	KindString Kind = iota
	KindBytes
	KindJSON
	KindArtifact
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "str"
	case KindBytes:
		return "bytes"
	case KindJSON:
		return "json"
	case KindArtifact:
		return "artifact"
	}
	return "<unknown kind>"
}

// Entry is one value held in an Artifact. Exactly one case is active,
// indicated by Kind; entries are immutable once inserted.
type Entry struct {
	Kind Kind

	Str      string
	Bytes    []byte
	JSON     *ir.Node
	Artifact *Artifact
}

func FromString(s string) Entry {
	return Entry{Kind: KindString, Str: s}
}

func FromBytes(b []byte) Entry {
	return Entry{Kind: KindBytes, Bytes: b}
}

func FromJSON(y *ir.Node) Entry {
	return Entry{Kind: KindJSON, JSON: y}
}

func FromArtifact(a *Artifact) Entry {
	return Entry{Kind: KindArtifact, Artifact: a}
}

// Equal reports deep structural equality. Strings and bytes compare
// directly; the structured kinds compare through their serialized
// form, so two trees are equal iff their baselines would be.
func (e Entry) Equal(o Entry) bool {
	if e.Kind != o.Kind {
		return false
	}
	switch e.Kind {
	case KindString:
		return e.Str == o.Str
	case KindBytes:
		return bytes.Equal(e.Bytes, o.Bytes)
	case KindJSON, KindArtifact:
		ed, err := json.Marshal(e)
		if err != nil {
			return false
		}
		od, err := json.Marshal(o)
		if err != nil {
			return false
		}
		return jsonpatch.Equal(ed, od)
	}
	return false
}
