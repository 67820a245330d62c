package diff

import (
	"strconv"

	"github.com/signadot/egress/artifact"
	"github.com/signadot/egress/ir"
)

func diffNodes(ms *[]artifact.Mismatch, path string, y, yRef *ir.Node, cfg *Config) {
	if y.Type != yRef.Type {
		*ms = append(*ms, notEqualNodes(path, y, yRef))
		return
	}
	switch y.Type {
	case ir.ObjectType:
		diffObjects(ms, path, y, yRef, cfg)
	case ir.ArrayType:
		diffArrays(ms, path, y, yRef, cfg)
	case ir.NumberType:
		diffNumbers(ms, path, y, yRef, cfg)
	default:
		// string, bool, null
		if !ir.Equal(y, yRef) {
			*ms = append(*ms, notEqualNodes(path, y, yRef))
		}
	}
}

func diffObjects(ms *[]artifact.Mismatch, path string, y, yRef *ir.Node, cfg *Config) {
	for i, k := range y.Fields {
		v := y.Values[i]
		vRef := yRef.Get(k)
		if vRef == nil {
			*ms = append(*ms, artifact.NewMissingInReference(path+"."+k, artifact.FromJSON(v)))
			continue
		}
		diffNodes(ms, path+"."+k, v, vRef, cfg)
	}
	for i, k := range yRef.Fields {
		if y.Get(k) == nil {
			*ms = append(*ms, artifact.NewMissingInProduced(path+"."+k, artifact.FromJSON(yRef.Values[i])))
		}
	}
}

func diffArrays(ms *[]artifact.Mismatch, path string, y, yRef *ir.Node, cfg *Config) {
	if len(y.Values) != len(yRef.Values) {
		// one mismatch for the whole array, no element-wise recursion
		*ms = append(*ms, artifact.NewLengthMismatch(
			path+".len()",
			len(y.Values), len(yRef.Values),
			artifact.FromJSON(y), artifact.FromJSON(yRef),
		))
		return
	}
	for i := range y.Values {
		diffNodes(ms, path+"["+strconv.Itoa(i)+"]", y.Values[i], yRef.Values[i], cfg)
	}
}

func notEqualNodes(path string, y, yRef *ir.Node) artifact.Mismatch {
	return artifact.NewNotEqual(path, artifact.FromJSON(y), artifact.FromJSON(yRef))
}
