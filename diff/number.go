package diff

import (
	"math"

	"github.com/signadot/egress/artifact"
	"github.com/signadot/egress/ir"
)

func diffNumbers(ms *[]artifact.Mismatch, path string, y, yRef *ir.Node, cfg *Config) {
	if y.Int64 != nil && yRef.Int64 != nil {
		if *y.Int64 != *yRef.Int64 {
			*ms = append(*ms, notEqualNodes(path, y, yRef))
		}
		return
	}
	a, aok := ir.FloatValue(y)
	b, bok := ir.FloatValue(yRef)
	if aok && bok {
		if !compareFloat(a, b, cfg.ATol, cfg.RTol) {
			*ms = append(*ms, notEqualNodes(path, y, yRef))
		}
		return
	}
	// literals representable as neither int64 nor float64
	if y.Number != yRef.Number {
		*ms = append(*ms, notEqualNodes(path, y, yRef))
	}
}

// compareFloat applies the tolerance rule to produced value a and
// reference value b. The rtol-only branch is deliberately one-sided
// and signed; stored baselines depend on this behavior.
func compareFloat(a, b float64, atol, rtol *float64) bool {
	switch {
	case atol == nil && rtol == nil:
		return a == b
	case atol == nil:
		return a-b <= *rtol*math.Abs(b)
	case rtol == nil:
		return math.Abs(a-b) <= *atol
	default:
		return a-b <= *rtol*math.Abs(b) && math.Abs(a-b) <= *atol
	}
}
