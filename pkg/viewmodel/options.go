package viewmodel

import (
	"log/slog"
	"time"
)

type config struct {
	location *time.Location
	logger   *slog.Logger
}

// Option customises a Proxy.
type Option func(*config)

// WithLocation sets the time zone used to format datetime fields. Defaults to
// time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithLogger sets the logger used to report failed file encodings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func defaultConfig() config {
	return config{
		location: time.Local,
		logger:   slog.Default(),
	}
}
