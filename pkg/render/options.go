package render

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-recordlayout/pkg/record"
	"github.com/goliatone/go-recordlayout/pkg/render/template"
)

// Option customises a Pipeline.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	engine      template.TemplateRenderer
	records     record.Source
	location    *time.Location
	concurrency int
	cache       bool
}

func defaultConfig() config {
	return config{
		logger:   slog.Default(),
		location: time.Local,
		cache:    true,
	}
}

// WithLogger sets the logger shared by every pipeline stage.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEngine replaces the template engine. The engine must provide the
// checked, selected and richtext filters; NewEngine does.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(c *config) {
		c.engine = engine
	}
}

// WithRecords sets the source records are opened from. Without one, passes
// bind an empty record carrying the requested id.
func WithRecords(records record.Source) Option {
	return func(c *config) {
		c.records = records
	}
}

// WithLocation sets the time zone datetime fields are displayed in.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithResolverConcurrency bounds concurrent field resolution in field-list
// passes.
func WithResolverConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = n
	}
}

// WithDescribeCache toggles caching of object describes for the lifetime of
// the pipeline. Enabled by default.
func WithDescribeCache(enabled bool) Option {
	return func(c *config) {
		c.cache = enabled
	}
}
