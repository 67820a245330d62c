// Package egress is a regression test library. A test records
// tree-structured artifacts of named values; the first run persists
// each artifact as a JSON baseline, and later runs compare the freshly
// produced tree against the stored one, reporting every structural
// difference with optional numeric tolerances.
//
// A stored baseline is never overwritten by a comparison run; delete
// the baseline file to re-capture it.
package egress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gofrs/flock"

	"github.com/signadot/egress/artifact"
	"github.com/signadot/egress/debug"
	"github.com/signadot/egress/diff"
)

// Egress owns the artifacts of one run and the decision, per artifact
// name, to record a new baseline or compare against the stored one.
type Egress struct {
	// ATol and RTol override the config-level tolerance defaults for
	// this run's numeric comparisons.
	ATol *float64
	RTol *float64

	config      *Config
	configLock  *flock.Flock
	artifactDir string

	names     []string
	artifacts map[string]*artifact.Artifact
}

// Open loads (or bootstraps) the project config under configDir and
// returns a handle whose artifacts live under the run-specific
// artifactSubdir, typically derived from the invoking test's name.
func Open(configDir, artifactSubdir string) (*Egress, error) {
	cfg, lk, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}
	return &Egress{
		ATol:        cfg.ATol,
		RTol:        cfg.RTol,
		config:      cfg,
		configLock:  lk,
		artifactDir: filepath.Join(cfg.Root, cfg.ArtifactDir, artifactSubdir),
		artifacts:   map[string]*artifact.Artifact{},
	}, nil
}

// Artifact claims name for this run and returns the empty tree to
// populate. The name keys the on-disk baseline, so it must be a bare
// file stem; each name may be claimed once per run.
func (e *Egress) Artifact(name string) (*artifact.Artifact, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: %q", ErrArtifactName, name)
	}
	if _, ok := e.artifacts[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateArtifact, name)
	}
	a := artifact.New()
	e.artifacts[name] = a
	i, _ := slices.BinarySearch(e.names, name)
	e.names = slices.Insert(e.names, i, name)
	return a, nil
}

func validName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return name == filepath.Base(name)
}

// Close finalizes the run: each claimed artifact either becomes a new
// baseline (no baseline file yet) or is compared against the stored
// one. The report aggregates the mismatches of all comparisons, in
// sorted artifact name order. The config lock is released on every
// path.
func (e *Egress) Close() (*Report, error) {
	defer e.configLock.Unlock()

	if err := os.MkdirAll(e.artifactDir, 0o755); err != nil {
		return nil, err
	}
	var ms []artifact.Mismatch
	for _, name := range e.names {
		contributed, err := e.finalize(name, e.artifacts[name])
		if err != nil {
			return nil, err
		}
		ms = append(ms, contributed...)
	}
	return &Report{mismatches: ms}, nil
}

// CloseAndAssertUnregressed is Close followed by
// Report.AssertUnregressed.
func (e *Egress) CloseAndAssertUnregressed() error {
	report, err := e.Close()
	if err != nil {
		return err
	}
	report.AssertUnregressed()
	return nil
}

func (e *Egress) finalize(name string, a *artifact.Artifact) ([]artifact.Mismatch, error) {
	path := filepath.Join(e.artifactDir, name+".json")
	lk := flock.New(path + ".lock")
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		wrote, err := writeBaseline(lk, path, a)
		if err != nil {
			return nil, err
		}
		if wrote {
			if debug.Store() {
				debug.Logf("egress: recorded baseline %s", path)
			}
			// first run records and passes
			return nil, nil
		}
	}
	return e.compare(lk, name, path, a)
}

// writeBaseline persists a as the new baseline unless another process
// got there first, in which case it reports false and the caller
// compares instead. The write is atomic: temp file then rename.
func writeBaseline(lk *flock.Flock, path string, a *artifact.Artifact) (bool, error) {
	if err := lk.Lock(); err != nil {
		return false, fmt.Errorf("lock %s: %w", lk.Path(), err)
	}
	defer lk.Unlock()
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	d, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return false, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return false, err
	}
	if _, err := tmp.Write(append(d, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return false, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return false, err
	}
	return true, nil
}

func (e *Egress) compare(lk *flock.Flock, name, path string, a *artifact.Artifact) ([]artifact.Mismatch, error) {
	if err := lk.RLock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", lk.Path(), err)
	}
	defer lk.Unlock()
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	reference := artifact.New()
	if err := json.Unmarshal(d, reference); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBaseline, path, err)
	}
	var opts []diff.Option
	if e.ATol != nil {
		opts = append(opts, diff.ATol(*e.ATol))
	}
	if e.RTol != nil {
		opts = append(opts, diff.RTol(*e.RTol))
	}
	ms := diff.Artifacts(a, reference, name, opts...)
	if debug.Store() {
		debug.Logf("egress: compared %s: %s", path, debug.JSON(ms))
	}
	return ms, nil
}
