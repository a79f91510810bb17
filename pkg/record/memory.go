package record

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
)

// Fetcher loads attribute values for a record. It receives the top-level
// attribute names derived from the requested field paths.
type Fetcher func(ctx context.Context, attributes []string) (map[string]any, error)

// Memory is a goroutine-safe Model holding attributes in a map.
type Memory struct {
	id      string
	fetcher Fetcher

	mu     sync.RWMutex
	attrs  map[string]any
	errs   map[string]string
	subs   map[int]func()
	nextID int
}

var (
	_ Model       = (*Memory)(nil)
	_ ErrorSource = (*Memory)(nil)
)

// NewMemory returns a record seeded with attrs. fetcher may be nil, in which
// case Fetch is a no-op.
func NewMemory(id string, attrs map[string]any, fetcher Fetcher) *Memory {
	m := &Memory{
		id:      id,
		fetcher: fetcher,
		attrs:   make(map[string]any, len(attrs)),
		subs:    make(map[int]func()),
	}
	for key, value := range attrs {
		m.attrs[key] = value
	}
	return m
}

// ID implements Model.
func (m *Memory) ID() string {
	return m.id
}

// Get implements Model.
func (m *Memory) Get(name string) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attrs[name]
}

// Set implements Model.
func (m *Memory) Set(name string, value any) {
	m.mu.Lock()
	m.attrs[name] = value
	m.mu.Unlock()
	m.notify()
}

// SetAll stores several attributes and notifies subscribers once.
func (m *Memory) SetAll(values map[string]any) {
	if len(values) == 0 {
		return
	}
	m.mu.Lock()
	for key, value := range values {
		m.attrs[key] = value
	}
	m.mu.Unlock()
	m.notify()
}

// Attributes implements Model. Names are sorted.
func (m *Memory) Attributes() []string {
	m.mu.RLock()
	names := make([]string, 0, len(m.attrs))
	for name := range m.attrs {
		names = append(names, name)
	}
	m.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Snapshot returns a shallow copy of the current attributes.
func (m *Memory) Snapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.attrs)
}

// SetError records a save error for a field path. An empty message clears it.
func (m *Memory) SetError(field, message string) {
	m.mu.Lock()
	if m.errs == nil {
		m.errs = make(map[string]string)
	}
	if message == "" {
		delete(m.errs, field)
	} else {
		m.errs[field] = message
	}
	m.mu.Unlock()
	m.notify()
}

// Errors implements ErrorSource.
func (m *Memory) Errors() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.errs) == 0 {
		return nil
	}
	return maps.Clone(m.errs)
}

// Fetch implements Model. Dotted paths fetch their first segment, which holds
// the related record as a nested map.
func (m *Memory) Fetch(ctx context.Context, fields []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.fetcher == nil || len(fields) == 0 {
		return nil
	}
	values, err := m.fetcher(ctx, topLevel(fields))
	if err != nil {
		return err
	}
	m.SetAll(values)
	return nil
}

// Subscribe implements Model.
func (m *Memory) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

func (m *Memory) notify() {
	m.mu.RLock()
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, m.subs[id])
	}
	m.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

func topLevel(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		head, _, _ := strings.Cut(strings.TrimSpace(field), ".")
		if head == "" {
			continue
		}
		if _, ok := seen[head]; ok {
			continue
		}
		seen[head] = struct{}{}
		out = append(out, head)
	}
	return out
}
