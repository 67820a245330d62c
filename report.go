package egress

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/egress/artifact"
)

// Report is the ordered mismatch list of one finalize cycle. An empty
// report means the run is unregressed. Reports serialize to a plain
// JSON array, so a meta test can record a report as an artifact of its
// own.
type Report struct {
	mismatches []artifact.Mismatch
}

func (r *Report) Empty() bool {
	return len(r.mismatches) == 0
}

func (r *Report) Mismatches() []artifact.Mismatch {
	return r.mismatches
}

func (r *Report) MarshalJSON() ([]byte, error) {
	if r.mismatches == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.mismatches)
}

func (r *Report) UnmarshalJSON(d []byte) error {
	r.mismatches = nil
	return json.Unmarshal(d, &r.mismatches)
}

// AssertUnregressed renders every mismatch to stderr and panics to
// fail the run. An empty report returns silently. Rendering is best
// effort: a value that cannot be re-serialized is printed as an error
// string, never escalated to a second failure.
func (r *Report) AssertUnregressed() {
	if r.Empty() {
		return
	}
	w := os.Stderr
	colors := newReportColors(isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()))
	for i := range r.mismatches {
		renderMismatch(w, colors, &r.mismatches[i])
	}
	panic(fmt.Sprintf("egress: found %d mismatch(es); failing the test", len(r.mismatches)))
}

type reportColors struct {
	enabled bool
	head    func(format string, a ...any) string
	path    func(format string, a ...any) string
}

func newReportColors(enabled bool) *reportColors {
	if !enabled {
		return &reportColors{
			head: fmt.Sprintf,
			path: fmt.Sprintf,
		}
	}
	return &reportColors{
		enabled: true,
		head:    color.New(color.FgRed, color.Bold).SprintfFunc(),
		path:    color.New(color.FgCyan).SprintfFunc(),
	}
}

func renderMismatch(w io.Writer, colors *reportColors, m *artifact.Mismatch) {
	switch m.Kind {
	case artifact.NotEqual:
		fmt.Fprintf(w, "%s: entry %s not the same as the reference value\n",
			colors.head("MISMATCH"), colors.path("`%s`", m.Path))
		fmt.Fprintf(w, "Reference value:\n%s\n", renderEntry(m.Reference))
		fmt.Fprintf(w, "New value:\n%s\n", renderEntry(m.Produced))
		renderStringDiff(w, colors, m)
	case artifact.MissingInReference:
		fmt.Fprintf(w, "%s: entry %s does not exist in the reference\n",
			colors.head("MISMATCH"), colors.path("`%s`", m.Path))
	case artifact.MissingInProduced:
		fmt.Fprintf(w, "%s: entry %s exists in the reference but was not produced here\n",
			colors.head("MISMATCH"), colors.path("`%s`", m.Path))
	case artifact.LengthMismatch:
		fmt.Fprintf(w, "%s: entry %s has length %d in the reference but length %d in the newly produced artifact\n",
			colors.head("MISMATCH"), colors.path("`%s`", m.Path),
			m.ReferenceLen, m.ProducedLen)
	default:
		fmt.Fprintf(w, "%s: entry %s (unrecognized mismatch kind %d)\n",
			colors.head("MISMATCH"), colors.path("`%s`", m.Path), m.Kind)
	}
}

func renderEntry(e *artifact.Entry) string {
	if e == nil {
		return "<none>"
	}
	d, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf("<unrenderable: %v>", err)
	}
	return string(d)
}

// renderStringDiff adds an inline character diff when both sides of a
// NotEqual are string entries and color is on.
func renderStringDiff(w io.Writer, colors *reportColors, m *artifact.Mismatch) {
	if !colors.enabled || m.Produced == nil || m.Reference == nil {
		return
	}
	if m.Produced.Kind != artifact.KindString || m.Reference.Kind != artifact.KindString {
		return
	}
	diffCfg := diffpatch.New()
	doMultiLine := strings.Contains(m.Reference.Str, "\n") && strings.Contains(m.Produced.Str, "\n")
	diffs := diffCfg.DiffMain(m.Reference.Str, m.Produced.Str, doMultiLine)
	fmt.Fprintf(w, "Diff:\n%s\n", diffCfg.DiffPrettyText(diffs))
}
