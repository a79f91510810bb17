package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ErrThemeNotFound is returned by ManifestSelector for unknown themes.
var ErrThemeNotFound = errors.New("render: theme not found")

// Theme is a resolved theme selection ready to style rendered pages.
type Theme struct {
	Name    string
	Variant string
	Tokens  map[string]string
	CSSVars map[string]string
}

// DefaultManifest styles layouts when no theme is configured.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "default",
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-text":        "#16325c",
			"color-label":       "#54698d",
			"color-border":      "#d8dde6",
			"color-error":       "#c23934",
			"font-family":       "system-ui, sans-serif",
			"font-size-heading": "1rem",
			"spacing-section":   "1.5rem",
			"spacing-gutter":    "1rem",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-text":   "#f3f2f2",
					"color-label":  "#b0adab",
					"color-border": "#3e3e3c",
				},
			},
		},
	}
}

// SelectTheme resolves name and variant through selector and merges the
// variant's tokens over the manifest's.
func SelectTheme(selector theme.ThemeSelector, name, variant string) (Theme, error) {
	if selector == nil {
		return Theme{}, fmt.Errorf("render: theme selector required")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return Theme{}, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return Theme{}, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}

	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if v, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range v.Tokens {
			tokens[key] = value
		}
	}

	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+key] = value
	}
	return Theme{
		Name:    selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: vars,
	}, nil
}

// Stylesheet renders the theme's CSS custom properties as a :root rule.
func (t Theme) Stylesheet() string {
	if len(t.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t.CSSVars))
	for key := range t.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(t.CSSVars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// RendererConfig exposes the theme in go-theme's renderer shape.
func (t Theme) RendererConfig() *theme.RendererConfig {
	return &theme.RendererConfig{
		Theme:   t.Name,
		Variant: t.Variant,
		Tokens:  t.Tokens,
		CSSVars: t.CSSVars,
	}
}

// ManifestSelector selects among registered theme manifests. Empty names and
// variants fall back to the defaults given at construction.
type ManifestSelector struct {
	registry       manifestRegistry
	defaultTheme   string
	defaultVariant string

	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// manifestRegistry validates manifests before they become selectable.
type manifestRegistry interface {
	Register(manifest *theme.Manifest) error
}

// NewManifestSelector registers manifests and returns a selector over them.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		registry:       theme.NewRegistry(),
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
		manifests:      make(map[string]*theme.Manifest),
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("render: theme manifest requires a name")
	}
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
	}
	s.mu.Lock()
	s.manifests[manifest.Name] = manifest
	s.mu.Unlock()
	return nil
}

// Select implements theme.ThemeSelector. Unknown variants select the base
// manifest tokens.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if strings.TrimSpace(name) == "" {
		name = s.defaultTheme
	}
	if strings.TrimSpace(variant) == "" {
		variant = s.defaultVariant
	}
	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
