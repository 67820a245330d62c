package egress

import (
	"errors"

	"github.com/signadot/egress/artifact"
)

var (
	// ErrArtifactName: artifact names must be bare identifiers with no
	// path separators.
	ErrArtifactName = errors.New("artifact name must be a bare file stem")

	// ErrDuplicateArtifact: one artifact name may be claimed at most
	// once per run.
	ErrDuplicateArtifact = errors.New("artifact name already claimed")

	// ErrConfig: the project config did not parse.
	ErrConfig = errors.New("bad egress config")

	// ErrBaseline: a stored baseline did not parse. The baseline is
	// treated as corrupt; the comparison for its artifact is fatal.
	ErrBaseline = errors.New("bad baseline")

	ErrDuplicateKey = artifact.ErrDuplicateKey
	ErrEmptyKey     = artifact.ErrEmptyKey
)
