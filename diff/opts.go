package diff

// Config holds the numeric tolerances for leaf comparison. Unset
// tolerances require exact equality.
type Config struct {
	ATol *float64
	RTol *float64
}

type Option func(*Config)

// ATol sets the absolute tolerance for float comparison.
func ATol(v float64) Option {
	return func(c *Config) {
		c.ATol = &v
	}
}

// RTol sets the relative tolerance for float comparison.
func RTol(v float64) Option {
	return func(c *Config) {
		c.RTol = &v
	}
}
