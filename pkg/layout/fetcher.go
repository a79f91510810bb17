// Package layout decides which layout sections a render pass compiles: either
// a synthetic section built from an explicit field list or the object's
// configured detail or edit layout for the record's record type.
package layout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
	"github.com/goliatone/go-recordlayout/pkg/record"
	"github.com/goliatone/go-recordlayout/pkg/resolver"
)

// RecordTypeField is the record attribute holding a record's record type id.
const RecordTypeField = "RecordTypeId"

// ErrNotResolvable is returned when an object uses record types but neither a
// record type id nor a saved record to read it from was supplied.
var ErrNotResolvable = errors.New("layout: record type not resolvable")

// Config holds the inputs of a single fetch.
type Config struct {
	Object string
	// Fields selects the field-list strategy when non-empty.
	Fields       []string
	ForEdit      bool
	RecordTypeID string
	// Record supplies the record type id when RecordTypeID is empty.
	Record record.Model
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Fetcher resolves layout sections for a render pass.
type Fetcher struct {
	describer metadata.Describer
	layouts   metadata.LayoutDescriber
	resolver  *resolver.Resolver
	logger    *slog.Logger
}

// NewFetcher constructs a Fetcher. The resolver is used for the field-list
// strategy; when nil one is built over describer.
func NewFetcher(describer metadata.Describer, layouts metadata.LayoutDescriber, res *resolver.Resolver, opts ...Option) *Fetcher {
	f := &Fetcher{
		describer: describer,
		layouts:   layouts,
		resolver:  res,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.resolver == nil {
		f.resolver = resolver.New(describer, resolver.WithLogger(f.logger))
	}
	return f
}

// Fetch returns the sections to compile for cfg.
func (f *Fetcher) Fetch(ctx context.Context, cfg Config) ([]metadata.LayoutSection, error) {
	if cfg.Object == "" {
		return nil, fmt.Errorf("layout: object type required")
	}
	if len(cfg.Fields) > 0 {
		return f.fieldList(ctx, cfg), nil
	}

	recordTypeID, err := f.RecordTypeID(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mode := metadata.ModeFor(cfg.ForEdit)
	sections, err := f.layouts.FetchLayoutSections(ctx, cfg.Object, recordTypeID, mode)
	if err != nil {
		return nil, fmt.Errorf("layout: fetch %s %s layout: %w", cfg.Object, mode, err)
	}
	return sections, nil
}

func (f *Fetcher) fieldList(ctx context.Context, cfg Config) []metadata.LayoutSection {
	resolved := f.resolver.ResolveAll(ctx, cfg.Object, cfg.Fields)
	fields := make([]metadata.FieldComponent, 0, len(resolved))
	for _, r := range resolved {
		descriptor := r.Descriptor
		fields = append(fields, metadata.FieldComponent{Path: r.Path, Descriptor: &descriptor})
	}
	return []metadata.LayoutSection{SyntheticSection(fields, cfg.ForEdit)}
}

// SyntheticSection lays out fields as an untitled two-column section.
func SyntheticSection(fields []metadata.FieldComponent, forEdit bool) metadata.LayoutSection {
	return metadata.FieldListSection(fields, forEdit)
}

// RecordTypeID picks the record type whose layout applies to cfg. Objects
// without record types use metadata.DefaultRecordTypeID. Otherwise an explicit
// id wins, then the record's own RecordTypeId attribute.
func (f *Fetcher) RecordTypeID(ctx context.Context, cfg Config) (string, error) {
	describe, err := f.describer.DescribeObject(ctx, cfg.Object)
	if err != nil {
		return "", fmt.Errorf("layout: describe %s: %w", cfg.Object, err)
	}
	if !describe.HasRecordTypes() {
		return metadata.DefaultRecordTypeID, nil
	}
	if id := strings.TrimSpace(cfg.RecordTypeID); id != "" {
		return id, nil
	}
	if cfg.Record == nil || cfg.Record.ID() == "" {
		return "", fmt.Errorf("%w: %s", ErrNotResolvable, cfg.Object)
	}

	if err := cfg.Record.Fetch(ctx, []string{RecordTypeField}); err != nil {
		return "", fmt.Errorf("layout: fetch record type of %s %s: %w", cfg.Object, cfg.Record.ID(), err)
	}
	id, _ := cfg.Record.Get(RecordTypeField).(string)
	if id == "" {
		return "", fmt.Errorf("%w: %s %s has no %s", ErrNotResolvable, cfg.Object, cfg.Record.ID(), RecordTypeField)
	}
	f.logger.Debug("record type resolved from record", "object", cfg.Object, "record", cfg.Record.ID(), "record_type", id)
	return id, nil
}
