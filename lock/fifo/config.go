package fifo

import "github.com/prometheus/client_golang/prometheus"

// DefaultName is used in log lines and metric labels when no name is set.
const DefaultName = "default"

// Config holds the configuration for a Lock.
type Config struct {
	// Name identifies the lock in log lines and metric labels.
	Name string

	// Registerer receives the lock metrics. Nil disables metrics.
	Registerer prometheus.Registerer
}

// Option configures a lock instance.
type Option interface {
	Apply(*Config)
}

// OptionFunc is a function that configures a lock config.
type OptionFunc func(*Config)

// Apply calls f(config).
func (f OptionFunc) Apply(config *Config) {
	f(config)
}

// WithName returns an option that sets the lock name.
func WithName(value string) Option {
	return OptionFunc(func(c *Config) {
		c.Name = value
	})
}

// WithMetrics enables Prometheus metrics collection using the provided
// registerer. Locks sharing a name on the same registerer share collectors,
// so their counts and queue depths are summed.
func WithMetrics(reg prometheus.Registerer) Option {
	return OptionFunc(func(c *Config) {
		c.Registerer = reg
	})
}
