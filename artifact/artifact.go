package artifact

import (
	"errors"
	"fmt"
	"slices"

	"github.com/signadot/egress/ir"
)

var (
	ErrDuplicateKey = errors.New("duplicate entry key")
	ErrEmptyKey     = errors.New("empty entry key")
)

// Artifact maps non-empty unique string keys to entries. Iteration is
// in sort order of the keys, so mismatch paths and persisted baselines
// are reproducible across runs and platforms.
type Artifact struct {
	keys    []string
	entries map[string]Entry
}

func New() *Artifact {
	return &Artifact{entries: map[string]Entry{}}
}

// Insert stores entry under key. A key already present is never
// overwritten; reuse fails with ErrDuplicateKey.
func (a *Artifact) Insert(key string, entry Entry) error {
	if key == "" {
		return ErrEmptyKey
	}
	if a.entries == nil {
		a.entries = map[string]Entry{}
	}
	if _, ok := a.entries[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	i, _ := slices.BinarySearch(a.keys, key)
	a.keys = slices.Insert(a.keys, i, key)
	a.entries[key] = entry
	return nil
}

func (a *Artifact) InsertString(key, s string) error {
	return a.Insert(key, FromString(s))
}

// InsertDisplay records the value's display formatting ("%v").
func (a *Artifact) InsertDisplay(key string, v any) error {
	return a.Insert(key, FromString(fmt.Sprintf("%v", v)))
}

// InsertDebug records the value's Go-syntax formatting ("%#v").
func (a *Artifact) InsertDebug(key string, v any) error {
	return a.Insert(key, FromString(fmt.Sprintf("%#v", v)))
}

func (a *Artifact) InsertBytes(key string, b []byte) error {
	return a.Insert(key, FromBytes(b))
}

func (a *Artifact) InsertJSON(key string, y *ir.Node) error {
	return a.Insert(key, FromJSON(y))
}

// InsertSerialize converts v to the JSON document model and records
// it. Conversion failure surfaces as an error distinct from the key
// errors; nothing is inserted in that case.
func (a *Artifact) InsertSerialize(key string, v any) error {
	y, err := ir.FromAny(v)
	if err != nil {
		return fmt.Errorf("serialize entry %q: %w", key, err)
	}
	return a.Insert(key, FromJSON(y))
}

// InsertArtifact moves child into the tree under key. Trees are built
// bottom-up; children carry no reference back to the parent.
func (a *Artifact) InsertArtifact(key string, child *Artifact) error {
	return a.Insert(key, FromArtifact(child))
}

// Keys returns the entry keys in sorted order.
func (a *Artifact) Keys() []string {
	return slices.Clone(a.keys)
}

func (a *Artifact) Get(key string) (Entry, bool) {
	e, ok := a.entries[key]
	return e, ok
}

func (a *Artifact) Len() int {
	return len(a.keys)
}
