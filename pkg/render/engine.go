package render

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-recordlayout/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var pageTemplates embed.FS

// PageTemplate names the embedded template wrapping an instance in a
// standalone HTML document.
const PageTemplate = "page"

// TemplatesFS exposes the embedded page templates so callers can extend them
// and pass the result back through gotemplate.WithFS.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(pageTemplates, "templates")
	if err != nil {
		return pageTemplates
	}
	return sub
}

// NewEngine builds the pongo2 engine used to instantiate layouts. It loads the
// embedded page templates and registers the binding filters compiled markup
// refers to. Extra options are applied after the defaults, so WithBaseDir
// templates shadow the embedded ones and WithGlobalData values replace the
// default globals.
func NewEngine(opts ...gotemplate.Option) (*gotemplate.Engine, error) {
	defaults := []gotemplate.Option{
		gotemplate.WithFS(TemplatesFS()),
		gotemplate.WithExtension(".tpl"),
		gotemplate.WithTemplateFunc(bindingFilters()),
		gotemplate.WithGlobalData(map[string]any{"generator": "recordlayout"}),
	}
	engine, err := gotemplate.New(append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("render: build engine: %w", err)
	}
	return engine, nil
}
