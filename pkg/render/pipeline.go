package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goliatone/go-recordlayout/pkg/compiler"
	"github.com/goliatone/go-recordlayout/pkg/describe"
	"github.com/goliatone/go-recordlayout/pkg/layout"
	"github.com/goliatone/go-recordlayout/pkg/metadata"
	"github.com/goliatone/go-recordlayout/pkg/record"
	"github.com/goliatone/go-recordlayout/pkg/render/template"
	"github.com/goliatone/go-recordlayout/pkg/resolver"
	"github.com/goliatone/go-recordlayout/pkg/viewmodel"
)

// Pipeline runs render passes. It is safe for concurrent use.
type Pipeline struct {
	describer metadata.Describer
	fetcher   *layout.Fetcher
	records   record.Source
	engine    template.TemplateRenderer
	logger    *slog.Logger
	location  *time.Location
}

// NewPipeline wires the render stages over a metadata source.
func NewPipeline(describer metadata.Describer, layouts metadata.LayoutDescriber, opts ...Option) (*Pipeline, error) {
	if describer == nil || layouts == nil {
		return nil, fmt.Errorf("render: describer and layout source required")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.cache {
		if _, cached := describer.(*describe.Cache); !cached {
			describer = describe.NewCache(describer)
		}
	}
	if cfg.engine == nil {
		engine, err := NewEngine()
		if err != nil {
			return nil, err
		}
		cfg.engine = engine
	}

	resolverOpts := []resolver.Option{resolver.WithLogger(cfg.logger)}
	if cfg.concurrency != 0 {
		resolverOpts = append(resolverOpts, resolver.WithConcurrency(cfg.concurrency))
	}
	res := resolver.New(describer, resolverOpts...)

	return &Pipeline{
		describer: describer,
		fetcher:   layout.NewFetcher(describer, layouts, res, layout.WithLogger(cfg.logger)),
		records:   cfg.records,
		engine:    cfg.engine,
		logger:    cfg.logger,
		location:  cfg.location,
	}, nil
}

// Describer returns the (possibly cached) metadata source of the pipeline.
func (p *Pipeline) Describer() metadata.Describer {
	return p.describer
}

// Engine returns the template engine instances render with.
func (p *Pipeline) Engine() template.TemplateRenderer {
	return p.engine
}

// Compile runs the metadata stages of a pass for attrs against model and
// returns the compiled template without loading record data.
func (p *Pipeline) Compile(ctx context.Context, attrs Attributes, model record.Model) (compiler.Template, error) {
	if attrs.SObject == "" {
		return compiler.Template{}, ErrNoObject
	}
	sections, err := p.fetcher.Fetch(ctx, layout.Config{
		Object:       attrs.SObject,
		Fields:       attrs.Fields(),
		ForEdit:      attrs.ForEdit,
		RecordTypeID: attrs.RecordTypeID,
		Record:       model,
	})
	if err != nil {
		return compiler.Template{}, err
	}
	return compiler.Compile(sections), nil
}

// Run executes a full pass: record type, layout, compilation, record fetch
// and binding. Passes without an object type or a saved record return
// ErrNoObject or ErrNoRecord; an object with record types and nothing to
// derive one from returns layout.ErrNotResolvable.
func (p *Pipeline) Run(ctx context.Context, attrs Attributes) (*Instance, error) {
	if attrs.SObject == "" {
		return nil, ErrNoObject
	}
	model, err := p.open(ctx, attrs)
	if err != nil {
		return nil, err
	}

	tmpl, err := p.Compile(ctx, attrs, model)
	if err != nil {
		return nil, err
	}
	if model.ID() == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoRecord, attrs.SObject)
	}

	if err := model.Fetch(ctx, tmpl.Fields); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.logger.Warn("record fetch failed, rendering available values",
			"object", attrs.SObject, "record", model.ID(), "error", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	proxy := viewmodel.New(model, tmpl.Descriptors,
		viewmodel.WithLocation(p.location),
		viewmodel.WithLogger(p.logger),
	)
	p.logger.Debug("render pass bound",
		"object", attrs.SObject, "record", model.ID(), "fields", len(tmpl.Fields), "for_edit", attrs.ForEdit)

	return &Instance{
		Object:   attrs.SObject,
		ForEdit:  attrs.ForEdit,
		Template: tmpl,
		Model:    model,
		Proxy:    proxy,
		engine:   p.engine,
	}, nil
}

func (p *Pipeline) open(ctx context.Context, attrs Attributes) (record.Model, error) {
	if p.records == nil || attrs.RecordID == "" {
		return record.NewMemory(attrs.RecordID, nil, nil), nil
	}
	model, err := p.records.Record(ctx, attrs.SObject, attrs.RecordID)
	if err != nil {
		return nil, fmt.Errorf("render: open %s %s: %w", attrs.SObject, attrs.RecordID, err)
	}
	return model, nil
}
