// Package config loads the recordlayout CLI configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-recordlayout/pkg/render/template/gotemplate"
)

// Config is the CLI configuration file.
type Config struct {
	// Metadata lists directories holding describe and layout fixtures.
	Metadata []string `yaml:"metadata"`
	// OpenAPI is an optional OpenAPI document whose component schemas
	// supplement the fixture describes.
	OpenAPI string `yaml:"openapi"`
	// Records lists directories holding record fixtures.
	Records []string `yaml:"records"`
	// Location names the time zone datetime fields are shown in.
	Location string        `yaml:"location"`
	Debounce time.Duration `yaml:"debounce"`
	Server   Server        `yaml:"server"`
	Theme    Theme         `yaml:"theme"`
	Page     Page          `yaml:"page"`
	Log      Log           `yaml:"log"`
}

// Page configures the page template wrapping rendered layouts.
type Page struct {
	// Templates is a directory whose templates override the embedded ones,
	// e.g. a custom page.tpl.
	Templates string `yaml:"templates"`
	// Globals are exposed to every page template.
	Globals map[string]string `yaml:"globals"`
}

// Server configures the preview server.
type Server struct {
	Addr string `yaml:"addr"`
}

// Theme configures the page theme.
type Theme struct {
	Name     string                       `yaml:"name"`
	Variant  string                       `yaml:"variant"`
	Tokens   map[string]string            `yaml:"tokens"`
	Variants map[string]map[string]string `yaml:"variants"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Location: "Local",
		Debounce: 10 * time.Millisecond,
		Server:   Server{Addr: ":8080"},
		Log:      Log{Level: "info", Format: "text"},
	}
}

// Load reads path over Default. A missing path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be caught while decoding.
func (c Config) Validate() error {
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	if dir := strings.TrimSpace(c.Page.Templates); dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("page templates: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("page templates %q is not a directory", dir)
		}
	}
	return nil
}

// TimeLocation resolves Location.
func (c Config) TimeLocation() (*time.Location, error) {
	switch strings.TrimSpace(c.Location) {
	case "", "Local":
		return time.Local, nil
	default:
		loc, err := time.LoadLocation(c.Location)
		if err != nil {
			return nil, fmt.Errorf("location %q: %w", c.Location, err)
		}
		return loc, nil
	}
}

// Logger builds the slog logger described by Log.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// EngineOptions returns the template engine options described by Page.
func (c Config) EngineOptions() []gotemplate.Option {
	var opts []gotemplate.Option
	if dir := strings.TrimSpace(c.Page.Templates); dir != "" {
		opts = append(opts, gotemplate.WithBaseDir(dir))
	}
	if len(c.Page.Globals) > 0 {
		globals := make(map[string]any, len(c.Page.Globals))
		for key, value := range c.Page.Globals {
			globals[key] = value
		}
		opts = append(opts, gotemplate.WithGlobalData(globals))
	}
	return opts
}

// ThemeManifest converts Theme into a go-theme manifest. It returns nil when
// no tokens are configured.
func (c Config) ThemeManifest() *theme.Manifest {
	if len(c.Theme.Tokens) == 0 && len(c.Theme.Variants) == 0 {
		return nil
	}
	name := strings.TrimSpace(c.Theme.Name)
	if name == "" {
		name = "custom"
	}
	manifest := &theme.Manifest{
		Name:    name,
		Version: "1.0.0",
		Tokens:  c.Theme.Tokens,
	}
	if len(c.Theme.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(c.Theme.Variants))
		for variant, tokens := range c.Theme.Variants {
			manifest.Variants[variant] = theme.Variant{Tokens: tokens}
		}
	}
	return manifest
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(raw) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", raw, err)
	}
	return level, nil
}
