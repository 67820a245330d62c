package egress_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signadot/egress"
	"github.com/signadot/egress/artifact"
)

func fruitsRun(t *testing.T, dir string, fruits []string) (*egress.Report, error) {
	t.Helper()
	eg, err := egress.Open(dir, "fruits_test")
	require.NoError(t, err)
	a, err := eg.Artifact("test")
	require.NoError(t, err)
	require.NoError(t, a.InsertSerialize("fruits", fruits))
	return eg.Close()
}

func TestBaselineThenCompare(t *testing.T) {
	dir := t.TempDir()

	// first run records the baseline and passes
	report, err := fruitsRun(t, dir, []string{"apples", "bananas", "oranges"})
	require.NoError(t, err)
	require.True(t, report.Empty())

	baseline := filepath.Join(dir, "egress", "artifacts", "fruits_test", "test.json")
	require.FileExists(t, baseline)
	require.FileExists(t, filepath.Join(dir, "egress.yaml"))

	// identical second run stays clean
	report, err = fruitsRun(t, dir, []string{"apples", "bananas", "oranges"})
	require.NoError(t, err)
	require.True(t, report.Empty())

	// a changed element is one not-equal at its index, no length
	// mismatch since lengths agree
	report, err = fruitsRun(t, dir, []string{"apples", "pears", "oranges"})
	require.NoError(t, err)
	ms := report.Mismatches()
	require.Len(t, ms, 1)
	require.Equal(t, artifact.NotEqual, ms[0].Kind)
	require.Equal(t, "test::fruits[1]", ms[0].Path)

	// the comparison run must not have touched the baseline
	d, err := os.ReadFile(baseline)
	require.NoError(t, err)
	require.Contains(t, string(d), "bananas")
}

func TestBaselineIsPrettyJSON(t *testing.T) {
	dir := t.TempDir()
	_, err := fruitsRun(t, dir, []string{"apples"})
	require.NoError(t, err)

	d, err := os.ReadFile(filepath.Join(dir, "egress", "artifacts", "fruits_test", "test.json"))
	require.NoError(t, err)
	require.Contains(t, string(d), "\n")
	ref := artifact.New()
	require.NoError(t, json.Unmarshal(d, ref))
	require.Equal(t, 1, ref.Len())
}

func TestArtifactNameContract(t *testing.T) {
	eg, err := egress.Open(t.TempDir(), "names")
	require.NoError(t, err)
	defer eg.Close()

	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, "sub/stem"} {
		_, err := eg.Artifact(bad)
		require.ErrorIs(t, err, egress.ErrArtifactName, "name %q", bad)
	}

	_, err = eg.Artifact("once")
	require.NoError(t, err)
	_, err = eg.Artifact("once")
	require.ErrorIs(t, err, egress.ErrDuplicateArtifact)
}

func TestDuplicateInsertBeforeStore(t *testing.T) {
	dir := t.TempDir()
	eg, err := egress.Open(dir, "dup")
	require.NoError(t, err)
	a, err := eg.Artifact("test")
	require.NoError(t, err)

	require.NoError(t, a.InsertString("k", "first"))
	require.ErrorIs(t, a.InsertString("k", "second"), egress.ErrDuplicateKey)

	// the duplicate was rejected before any store interaction; the run
	// still finalizes with the first value
	report, err := eg.Close()
	require.NoError(t, err)
	require.True(t, report.Empty())

	d, err := os.ReadFile(filepath.Join(dir, "egress", "artifacts", "dup", "test.json"))
	require.NoError(t, err)
	require.Contains(t, string(d), "first")
	require.NotContains(t, string(d), "second")
}

func TestCorruptBaseline(t *testing.T) {
	dir := t.TempDir()
	_, err := fruitsRun(t, dir, []string{"apples"})
	require.NoError(t, err)

	baseline := filepath.Join(dir, "egress", "artifacts", "fruits_test", "test.json")
	require.NoError(t, os.WriteFile(baseline, []byte("not json"), 0o644))

	_, err = fruitsRun(t, dir, []string{"apples"})
	require.ErrorIs(t, err, egress.ErrBaseline)
}

func TestToleranceOverride(t *testing.T) {
	dir := t.TempDir()
	run := func(atol *float64) (*egress.Report, error) {
		eg, err := egress.Open(dir, "numbers")
		require.NoError(t, err)
		eg.ATol = atol
		a, err := eg.Artifact("basic_arithmetic")
		require.NoError(t, err)
		require.NoError(t, a.InsertSerialize("result", 1.0005))
		return eg.Close()
	}

	report, err := run(nil)
	require.NoError(t, err)
	require.True(t, report.Empty())

	// overwrite the produced value but stay within atol
	eg, err := egress.Open(dir, "numbers")
	require.NoError(t, err)
	atol := 0.001
	eg.ATol = &atol
	a, err := eg.Artifact("basic_arithmetic")
	require.NoError(t, err)
	require.NoError(t, a.InsertSerialize("result", 1.0))
	report, err = eg.Close()
	require.NoError(t, err)
	require.True(t, report.Empty(), "1.0 vs 1.0005 within atol 0.001: %+v", report.Mismatches())

	// a tighter atol regresses
	eg, err = egress.Open(dir, "numbers")
	require.NoError(t, err)
	tight := 0.0001
	eg.ATol = &tight
	a, err = eg.Artifact("basic_arithmetic")
	require.NoError(t, err)
	require.NoError(t, a.InsertSerialize("result", 1.0))
	report, err = eg.Close()
	require.NoError(t, err)
	require.Len(t, report.Mismatches(), 1)
}

func TestConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	eg, err := egress.Open(dir, "cfg")
	require.NoError(t, err)
	_, err = eg.Close()
	require.NoError(t, err)

	d, err := os.ReadFile(filepath.Join(dir, egress.ConfigName))
	require.NoError(t, err)
	require.Contains(t, string(d), "artifactDir")

	// a second open must reuse the existing config untouched
	before := string(d)
	eg, err = egress.Open(dir, "cfg2")
	require.NoError(t, err)
	_, err = eg.Close()
	require.NoError(t, err)
	after, err := os.ReadFile(filepath.Join(dir, egress.ConfigName))
	require.NoError(t, err)
	require.Equal(t, before, string(after))
}

func TestAssertUnregressed(t *testing.T) {
	dir := t.TempDir()
	_, err := fruitsRun(t, dir, []string{"apples"})
	require.NoError(t, err)

	eg, err := egress.Open(dir, "fruits_test")
	require.NoError(t, err)
	a, err := eg.Artifact("test")
	require.NoError(t, err)
	require.NoError(t, a.InsertSerialize("fruits", []string{"pears"}))

	require.Panics(t, func() {
		_ = eg.CloseAndAssertUnregressed()
	})
}

func TestReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, err := fruitsRun(t, dir, []string{"apples", "bananas"})
	require.NoError(t, err)
	report, err := fruitsRun(t, dir, []string{"apples", "cherries"})
	require.NoError(t, err)
	require.False(t, report.Empty())

	d, err := json.Marshal(report)
	require.NoError(t, err)

	back := &egress.Report{}
	require.NoError(t, json.Unmarshal(d, back))
	require.Len(t, back.Mismatches(), 1)
	require.Equal(t, report.Mismatches()[0].Path, back.Mismatches()[0].Path)

	// a report can itself be recorded as an artifact, so meta tests
	// can snapshot their own mismatch output
	meta := artifact.New()
	require.NoError(t, meta.InsertSerialize("new_mismatches", report))
}

func TestEmptyReportSerializesAsArray(t *testing.T) {
	dir := t.TempDir()
	report, err := fruitsRun(t, dir, []string{"apples"})
	require.NoError(t, err)
	d, err := json.Marshal(report)
	require.NoError(t, err)
	require.Equal(t, "[]", string(d))
}
