package render

import (
	"fmt"
	"io"

	"github.com/goliatone/go-recordlayout/pkg/compiler"
	"github.com/goliatone/go-recordlayout/pkg/record"
	"github.com/goliatone/go-recordlayout/pkg/render/template"
	"github.com/goliatone/go-recordlayout/pkg/viewmodel"
)

// Instance is a compiled layout bound to a record.
type Instance struct {
	Object   string
	ForEdit  bool
	Template compiler.Template
	Model    record.Model
	Proxy    *viewmodel.Proxy

	engine template.TemplateRenderer
}

// HTML executes the compiled markup against the current proxy values.
func (i *Instance) HTML() (string, error) {
	out, err := i.engine.RenderString(i.Template.Markup, i.Proxy.Values())
	if err != nil {
		return "", fmt.Errorf("render: instantiate %s %s: %w", i.Object, i.Model.ID(), err)
	}
	return out, nil
}

// Render writes HTML to w.
func (i *Instance) Render(w io.Writer) error {
	out, err := i.HTML()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// PageData configures the standalone document written by Page.
type PageData struct {
	Title      string
	Theme      string
	Stylesheet string
}

// Page writes the instance wrapped in the embedded page template.
func (i *Instance) Page(w io.Writer, data PageData) error {
	content, err := i.HTML()
	if err != nil {
		return err
	}
	title := data.Title
	if title == "" {
		title = i.Object
	}
	_, err = i.engine.RenderTemplate(PageTemplate, map[string]any{
		"title":      title,
		"theme":      data.Theme,
		"stylesheet": data.Stylesheet,
		"object":     i.Object,
		"record":     i.Model.ID(),
		"content":    content,
	}, w)
	if err != nil {
		return fmt.Errorf("render: page %s: %w", i.Object, err)
	}
	return nil
}

// Close releases the instance's subscription on its record and waits for
// pending file encodings.
func (i *Instance) Close() error {
	return i.Proxy.Close()
}
