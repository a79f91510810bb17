package viewmodel

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"sort"
	"sync"

	"github.com/goliatone/go-recordlayout/pkg/compiler"
	"github.com/goliatone/go-recordlayout/pkg/metadata"
	"github.com/goliatone/go-recordlayout/pkg/record"
)

var (
	// ErrUnknownProperty is returned when writing a property the record does
	// not expose.
	ErrUnknownProperty = errors.New("viewmodel: unknown property")
	// ErrNotFile is returned when a file field is assigned something other
	// than an io.Reader.
	ErrNotFile = errors.New("viewmodel: value is not a file")
)

type property struct {
	get func() any
	set func(any) error
}

// Proxy is the view model bound by rendered templates. It is safe for
// concurrent use.
type Proxy struct {
	model       record.Model
	descriptors map[string]metadata.FieldDescriptor
	cfg         config

	mu    sync.RWMutex
	props map[string]property

	unsubscribe func()

	pending sync.WaitGroup
	errMu   sync.Mutex
	errs    []error
}

// New builds a Proxy over model. descriptors maps attribute names to their
// field metadata and may be nil. The Proxy subscribes to model changes until
// Close is called.
func New(model record.Model, descriptors map[string]metadata.FieldDescriptor, opts ...Option) *Proxy {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	p := &Proxy{
		model:       model,
		descriptors: maps.Clone(descriptors),
		cfg:         cfg,
		props:       make(map[string]property),
	}
	p.refresh()
	p.unsubscribe = model.Subscribe(p.refresh)
	return p
}

// refresh defines properties for attributes not yet exposed.
func (p *Proxy) refresh() {
	names := p.model.Attributes()

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, name := range names {
		if _, ok := p.props[name]; ok {
			continue
		}
		p.props[name] = p.define(name)
	}
}

func (p *Proxy) define(name string) property {
	field, known := p.descriptors[name]

	getter := func() any { return p.model.Get(name) }
	setter := func(value any) error {
		p.model.Set(name, value)
		return nil
	}
	if !known {
		return property{get: getter, set: setter}
	}

	switch field.Type {
	case metadata.FieldTypeDate:
		getter = func() any { return FormatDate(p.model.Get(name)) }
	case metadata.FieldTypeDateTime:
		getter = func() any { return FormatDateTime(p.model.Get(name), p.cfg.location) }
	case metadata.FieldTypeBase64:
		setter = func(value any) error { return p.setFile(name, value) }
	}
	return property{get: getter, set: setter}
}

func (p *Proxy) setFile(name string, value any) error {
	if value == nil {
		return nil
	}
	r, ok := value.(io.Reader)
	if !ok {
		return fmt.Errorf("%w: %s got %T", ErrNotFile, name, value)
	}

	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		url, err := DataURL(r)
		if err != nil {
			err = fmt.Errorf("viewmodel: encode %s: %w", name, err)
			p.cfg.logger.Warn("file encoding failed", "field", name, "error", err)
			p.errMu.Lock()
			p.errs = append(p.errs, err)
			p.errMu.Unlock()
			return
		}
		p.model.Set(name, url)
	}()
	return nil
}

func (p *Proxy) lookup(name string) (property, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	prop, ok := p.props[name]
	return prop, ok
}

// Get returns the display value of a property.
func (p *Proxy) Get(name string) (any, bool) {
	prop, ok := p.lookup(name)
	if !ok {
		return nil, false
	}
	return prop.get(), true
}

// Set writes a property. File fields take an io.Reader and are written to the
// record once encoding completes; use Wait to observe the result.
func (p *Proxy) Set(name string, value any) error {
	prop, ok := p.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	return prop.set(value)
}

// Properties lists exposed property names in sorted order.
func (p *Proxy) Properties() []string {
	p.mu.RLock()
	names := make([]string, 0, len(p.props))
	for name := range p.props {
		names = append(names, name)
	}
	p.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Values returns the template context: every property's display value plus,
// when the record tracks save errors, the error messages under
// compiler.ErrorsKey.
func (p *Proxy) Values() map[string]any {
	p.mu.RLock()
	props := maps.Clone(p.props)
	p.mu.RUnlock()

	values := make(map[string]any, len(props)+1)
	for name, prop := range props {
		values[name] = prop.get()
	}
	if src, ok := p.model.(record.ErrorSource); ok {
		errs := make(map[string]any)
		for field, msg := range src.Errors() {
			errs[field] = msg
		}
		values[compiler.ErrorsKey] = errs
	}
	return values
}

// Wait blocks until pending file encodings finish and returns their errors.
func (p *Proxy) Wait() error {
	p.pending.Wait()
	p.errMu.Lock()
	defer p.errMu.Unlock()
	err := errors.Join(p.errs...)
	p.errs = nil
	return err
}

// Close stops tracking model changes and waits for pending encodings.
func (p *Proxy) Close() error {
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
	return p.Wait()
}
