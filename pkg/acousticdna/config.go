package acousticdna

import "time"

// Config holds configuration options for the constellation service.
type Config struct {
	// Logger is the logger instance to use.
	// If nil, a default logger will be created.
	Logger Logger

	// Store is the reference-sample store backend to use.
	// If nil, a default in-memory LRU of StoreCapacity entries is created.
	Store Store

	// StoreCapacity sizes the default LRU store when Store is nil.
	// Default: 8 entries.
	StoreCapacity int

	// DecodeTimeout is a per-call decode/align duration held in the
	// configuration. The Service stores it but does not apply it: ingest
	// and compare calls run under the caller's context alone, with no
	// deadline added here.
	DecodeTimeout time.Duration
}

// Option is a functional option for configuring the service.
type Option func(*Config)

// WithLogger sets a custom logger.
func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithStore sets a custom reference-sample store backend.
func WithStore(store Store) Option {
	return func(c *Config) {
		c.Store = store
	}
}

// WithStoreCapacity sets the capacity of the default in-memory LRU store.
// Has no effect if WithStore is also supplied.
func WithStoreCapacity(capacity int) Option {
	return func(c *Config) {
		c.StoreCapacity = capacity
	}
}

// WithDecodeTimeout sets Config.DecodeTimeout. The Service does not apply
// this value as a deadline.
func WithDecodeTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.DecodeTimeout = d
	}
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		StoreCapacity: 8,
	}
}
