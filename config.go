package egress

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/gofrs/flock"
)

const (
	ConfigName         = "egress.yaml"
	DefaultArtifactDir = "egress/artifacts"
)

// Config is the small per-project document holding where artifacts
// live and optional default tolerances for numeric comparison.
type Config struct {
	Root        string   `yaml:"root"`
	ArtifactDir string   `yaml:"artifactDir"`
	ATol        *float64 `yaml:"atol,omitempty"`
	RTol        *float64 `yaml:"rtol,omitempty"`
}

func DefaultConfig(root string) *Config {
	return &Config{
		Root:        root,
		ArtifactDir: DefaultArtifactDir,
	}
}

// loadConfig reads the project config, creating it with defaults on
// first use. The config content is only ever written under an
// exclusive advisory lock and only ever read under a shared one, so
// concurrent first-time runs never observe a partial write. The
// returned shared lock is held until the handle closes.
func loadConfig(configDir string) (*Config, *flock.Flock, error) {
	path := filepath.Join(configDir, ConfigName)
	lk := flock.New(path)

	st, err := os.Stat(path)
	missing := os.IsNotExist(err)
	if err != nil && !missing {
		return nil, nil, err
	}
	// flock creates the file when it takes the first lock, so an empty
	// config counts as not yet written.
	if missing || st.Size() == 0 {
		if err := writeDefaultConfig(lk, configDir, path); err != nil {
			return nil, nil, err
		}
	}

	if err := lk.RLock(); err != nil {
		return nil, nil, fmt.Errorf("lock %s: %w", path, err)
	}
	d, err := os.ReadFile(path)
	if err != nil {
		lk.Unlock()
		return nil, nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(d, cfg); err != nil {
		lk.Unlock()
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	if cfg.Root == "" {
		cfg.Root = configDir
	}
	if cfg.ArtifactDir == "" {
		cfg.ArtifactDir = DefaultArtifactDir
	}
	return cfg, lk, nil
}

func writeDefaultConfig(lk *flock.Flock, configDir, path string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	if err := lk.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	defer lk.Unlock()
	if st, err := os.Stat(path); err == nil && st.Size() > 0 {
		// another process won the bootstrap race
		return nil
	}
	d, err := yaml.Marshal(DefaultConfig(configDir))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return os.WriteFile(path, d, 0o644)
}
