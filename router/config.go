package router

import (
	"log/slog"
	"time"
)

// Config defines configuration for a Router instance.
type Config struct {
	// Router identity, used in logs; defaults to the address string
	Name string

	// Deadline applied to requests whose context carries none
	RequestTimeout time.Duration

	// Observability
	Logger *slog.Logger

	// Observer names a registered observability.Observer
	Observer string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 30 * time.Second,
		Logger:         slog.Default(),
		Observer:       "noop",
	}
}

func (c *Config) Merge(source *Config) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.RequestTimeout > 0 {
		c.RequestTimeout = source.RequestTimeout
	}

	if source.Logger != nil {
		c.Logger = source.Logger
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}
}
