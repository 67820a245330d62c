package artifact

import "fmt"

type MismatchKind int

const (
	// NotEqual: the path exists on both sides with differing values.
	NotEqual MismatchKind = iota
	// MissingInReference: the path exists in the produced tree only.
	MissingInReference
	// MissingInProduced: the path exists in the baseline only.
	MissingInProduced
	// LengthMismatch: a JSON array differs in element count.
	LengthMismatch
)

func (k MismatchKind) String() string {
	d, err := k.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (k MismatchKind) MarshalText() ([]byte, error) {
	s, ok := map[MismatchKind]string{
		NotEqual:           "not-equal",
		MissingInReference: "missing-in-reference",
		MissingInProduced:  "missing-in-produced",
		LengthMismatch:     "length-mismatch",
	}[k]
	if !ok {
		return nil, fmt.Errorf("unrecognized mismatch kind %d", k)
	}
	return []byte(s), nil
}

func (k *MismatchKind) UnmarshalText(d []byte) error {
	kk, ok := map[string]MismatchKind{
		"not-equal":            NotEqual,
		"missing-in-reference": MissingInReference,
		"missing-in-produced":  MissingInProduced,
		"length-mismatch":      LengthMismatch,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized mismatch kind %q", d)
	}
	*k = kk
	return nil
}

// Mismatch is one discrepancy between a produced tree and its
// baseline, located by a fully qualified path: artifact levels join
// with "::", object fields with ".", array indices append "[i]".
type Mismatch struct {
	Kind MismatchKind `json:"kind"`
	Path string       `json:"path"`

	Produced  *Entry `json:"produced,omitempty"`
	Reference *Entry `json:"reference,omitempty"`

	ProducedLen  int `json:"producedLen,omitempty"`
	ReferenceLen int `json:"referenceLen,omitempty"`
}

func NewNotEqual(path string, produced, reference Entry) Mismatch {
	return Mismatch{
		Kind:      NotEqual,
		Path:      path,
		Produced:  &produced,
		Reference: &reference,
	}
}

func NewMissingInReference(path string, produced Entry) Mismatch {
	return Mismatch{
		Kind:     MissingInReference,
		Path:     path,
		Produced: &produced,
	}
}

func NewMissingInProduced(path string, reference Entry) Mismatch {
	return Mismatch{
		Kind:      MissingInProduced,
		Path:      path,
		Reference: &reference,
	}
}

func NewLengthMismatch(path string, producedLen, referenceLen int, produced, reference Entry) Mismatch {
	return Mismatch{
		Kind:         LengthMismatch,
		Path:         path,
		Produced:     &produced,
		Reference:    &reference,
		ProducedLen:  producedLen,
		ReferenceLen: referenceLen,
	}
}
