package scan

import "time"

// Config holds engine configuration.
type Config struct {
	// Workers bounds the number of probes evaluated concurrently.
	Workers int
	// ProbeTimeout bounds every single probe evaluation; on expiry the
	// outcome degrades to inconclusive rather than hanging the run.
	ProbeTimeout time.Duration
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Workers:      4,
		ProbeTimeout: 3 * time.Second,
	}
}

// normalized fills zero fields with defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = def.ProbeTimeout
	}
	return c
}
