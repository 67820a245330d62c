// Package diff walks a produced artifact and its stored baseline in
// lock-step and reports every structural difference as a path-located
// mismatch. The walk is pure and synchronous; for a given pair of
// trees and tolerance options the mismatch sequence is deterministic.
package diff

import (
	"github.com/signadot/egress/artifact"
	"github.com/signadot/egress/debug"
)

// Artifacts compares produced against reference, prefixing every
// mismatch path with prefix (normally the artifact name).
func Artifacts(produced, reference *artifact.Artifact, prefix string, opts ...Option) []artifact.Mismatch {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	var ms []artifact.Mismatch
	diffArtifacts(&ms, prefix, produced, reference, cfg)
	if debug.Diff() {
		debug.Logf("diff %q: %d mismatch(es)", prefix, len(ms))
	}
	return ms
}

func diffArtifacts(ms *[]artifact.Mismatch, prefix string, produced, reference *artifact.Artifact, cfg *Config) {
	for _, k := range produced.Keys() {
		v, _ := produced.Get(k)
		path := prefix + "::" + k
		vRef, ok := reference.Get(k)
		if !ok {
			*ms = append(*ms, artifact.NewMissingInReference(path, v))
			continue
		}
		switch {
		case v.Kind == artifact.KindArtifact && vRef.Kind == artifact.KindArtifact:
			diffArtifacts(ms, path, v.Artifact, vRef.Artifact, cfg)
		case v.Kind == artifact.KindJSON && vRef.Kind == artifact.KindJSON:
			diffNodes(ms, path, v.JSON, vRef.JSON, cfg)
		default:
			if !v.Equal(vRef) {
				*ms = append(*ms, artifact.NewNotEqual(path, v, vRef))
			}
		}
	}
	for _, k := range reference.Keys() {
		if _, ok := produced.Get(k); !ok {
			vRef, _ := reference.Get(k)
			*ms = append(*ms, artifact.NewMissingInProduced(prefix+"::"+k, vRef))
		}
	}
}
