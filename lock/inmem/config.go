package inmem

import "github.com/enverbisevac/fifolock/lock/fifo"

// Config holds the configuration for the in-memory lock service.
type Config struct {
	// LockOptions are applied to every per-key lock. The key is always
	// used as the lock name.
	LockOptions []fifo.Option
}

// Option configures a lock service instance.
type Option interface {
	Apply(*Config)
}

// OptionFunc is a function that configures a lock service config.
type OptionFunc func(*Config)

// Apply calls f(config).
func (f OptionFunc) Apply(config *Config) {
	f(config)
}

// WithLockOptions returns an option that forwards options to each per-key lock.
func WithLockOptions(options ...fifo.Option) Option {
	return OptionFunc(func(c *Config) {
		c.LockOptions = append(c.LockOptions, options...)
	})
}
