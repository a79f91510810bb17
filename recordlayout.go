// Package recordlayout renders object layouts bound to records. The root
// package re-exports the constructors most callers need; the pkg/ tree holds
// the stages themselves.
package recordlayout

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-recordlayout/pkg/compiler"
	"github.com/goliatone/go-recordlayout/pkg/describe"
	"github.com/goliatone/go-recordlayout/pkg/metadata"
	"github.com/goliatone/go-recordlayout/pkg/record"
	"github.com/goliatone/go-recordlayout/pkg/render"
)

// Attributes aliases render.Attributes.
type Attributes = render.Attributes

// Instance aliases render.Instance.
type Instance = render.Instance

// Template aliases compiler.Template.
type Template = compiler.Template

// Compile turns layout sections into bindable markup.
func Compile(sections []metadata.LayoutSection) Template {
	return compiler.Compile(sections)
}

// NewPipeline exposes the render pipeline constructor from the top-level
// module.
func NewPipeline(describer metadata.Describer, layouts metadata.LayoutDescriber, options ...render.Option) (*render.Pipeline, error) {
	return render.NewPipeline(describer, layouts, options...)
}

// NewHost returns a live host rendering attribute changes into container.
func NewHost(pipeline *render.Pipeline, container render.Container, options ...render.HostOption) *render.Host {
	return render.NewHost(pipeline, container, options...)
}

// RenderHTML runs a single pass over the fixture filesystems and returns the
// layout fragment. It is the simplest entry point for callers that just want
// HTML output.
func RenderHTML(ctx context.Context, metadataFS, recordsFS fs.FS, attrs Attributes, options ...render.Option) (string, error) {
	layouts, err := describe.LoadFS(metadataFS)
	if err != nil {
		return "", err
	}
	records, err := record.LoadFS(recordsFS)
	if err != nil {
		return "", err
	}
	pipeline, err := render.NewPipeline(layouts, layouts, append([]render.Option{render.WithRecords(records)}, options...)...)
	if err != nil {
		return "", err
	}
	instance, err := pipeline.Run(ctx, attrs)
	if err != nil {
		return "", err
	}
	defer instance.Close()
	return instance.HTML()
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the render package directly.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
