package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultDebounce = 10 * time.Millisecond

// Container receives rendered instances. Mount is called with the host lock
// held and must not call back into the Host.
type Container interface {
	Mount(instance *Instance) error
}

// ContainerFunc adapts a function into a Container.
type ContainerFunc func(instance *Instance) error

// Mount calls the underlying function.
func (fn ContainerFunc) Mount(instance *Instance) error {
	return fn(instance)
}

// OverrideReporter is implemented by containers that can supply their own
// content. When LayoutOverridden reports true render passes are skipped.
type OverrideReporter interface {
	LayoutOverridden() bool
}

// HostOption customises a Host.
type HostOption func(*Host)

// WithDebounce sets how long the host waits after an attribute write before
// rendering. Writes within the window coalesce into one pass.
func WithDebounce(d time.Duration) HostOption {
	return func(h *Host) {
		if d >= 0 {
			h.debounce = d
		}
	}
}

// WithHostLogger sets the logger used to report failed and discarded passes.
func WithHostLogger(logger *slog.Logger) HostOption {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithContext sets the parent context of every render pass.
func WithContext(ctx context.Context) HostOption {
	return func(h *Host) {
		if ctx != nil {
			h.ctx = ctx
		}
	}
}

// Host owns the live attributes of a rendered view and keeps the container
// in sync with them.
type Host struct {
	pipeline  *Pipeline
	container Container
	logger    *slog.Logger
	debounce  time.Duration
	ctx       context.Context

	mu         sync.Mutex
	idle       *sync.Cond
	attrs      Attributes
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	pending    int
	current    *Instance
	closed     bool
}

// NewHost returns a Host rendering through pipeline into container.
func NewHost(pipeline *Pipeline, container Container, opts ...HostOption) *Host {
	h := &Host{
		pipeline:  pipeline,
		container: container,
		logger:    slog.Default(),
		debounce:  defaultDebounce,
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.idle = sync.NewCond(&h.mu)
	return h
}

// Attributes returns the current live attributes.
func (h *Host) Attributes() Attributes {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attrs
}

// SetAttributes replaces every attribute and schedules a render.
func (h *Host) SetAttributes(attrs Attributes) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attrs = attrs
	h.scheduleLocked()
}

// SetAttribute updates one attribute by name and schedules a render. Boolean
// attributes treat an empty value as true.
func (h *Host) SetAttribute(name, value string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch strings.ToLower(strings.TrimSpace(name)) {
	case AttrSObject:
		h.attrs.SObject = strings.TrimSpace(value)
	case AttrFieldList:
		h.attrs.FieldList = value
	case AttrForEdit:
		forEdit, err := parseBoolAttr(value)
		if err != nil {
			return fmt.Errorf("render: attribute %s: %w", AttrForEdit, err)
		}
		h.attrs.ForEdit = forEdit
	case AttrRecordID:
		h.attrs.RecordID = strings.TrimSpace(value)
	case AttrRecordTypeID:
		h.attrs.RecordTypeID = strings.TrimSpace(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	h.scheduleLocked()
	return nil
}

// Render schedules a pass with the current attributes.
func (h *Host) Render() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scheduleLocked()
}

// Current returns the mounted instance, nil when nothing is rendered.
func (h *Host) Current() *Instance {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Wait blocks until no pass is scheduled or running.
func (h *Host) Wait() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for h.pending > 0 {
		h.idle.Wait()
	}
}

// Close cancels pending work, waits for it to stop and releases the mounted
// instance.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.generation++
	h.stopLocked()
	h.mu.Unlock()

	h.Wait()

	h.mu.Lock()
	current := h.current
	h.current = nil
	h.mu.Unlock()
	if current != nil {
		return current.Close()
	}
	return nil
}

func (h *Host) scheduleLocked() {
	if h.closed {
		return
	}
	h.generation++
	h.stopLocked()

	gen := h.generation
	h.pending++
	h.timer = time.AfterFunc(h.debounce, func() { h.run(gen) })
}

// stopLocked cancels the running pass and the scheduled one, if any.
func (h *Host) stopLocked() {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	if h.timer != nil && h.timer.Stop() {
		h.doneLocked()
	}
	h.timer = nil
}

func (h *Host) doneLocked() {
	h.pending--
	if h.pending == 0 {
		h.idle.Broadcast()
	}
}

func (h *Host) run(gen uint64) {
	h.mu.Lock()
	if gen != h.generation || h.closed {
		h.doneLocked()
		h.mu.Unlock()
		return
	}
	attrs := h.attrs
	ctx, cancel := context.WithCancel(h.ctx)
	h.cancel = cancel
	h.mu.Unlock()

	defer func() {
		cancel()
		h.mu.Lock()
		h.doneLocked()
		h.mu.Unlock()
	}()

	log := h.logger.With("generation", gen, "object", attrs.SObject, "record", attrs.RecordID)

	if reporter, ok := h.container.(OverrideReporter); ok && reporter.LayoutOverridden() {
		log.Debug("render skipped", "error", ErrLayoutOverridden)
		return
	}

	instance, err := h.pipeline.Run(ctx, attrs)

	h.mu.Lock()
	defer h.mu.Unlock()

	stale := gen != h.generation || h.closed
	if err != nil {
		switch {
		case stale && errors.Is(err, context.Canceled):
			log.Debug("render cancelled by newer attributes")
		case NothingRendered(err):
			log.Debug("nothing rendered", "error", err)
		default:
			log.Warn("render failed", "error", err)
		}
		return
	}
	if stale {
		log.Debug("discarding stale render")
		_ = instance.Close()
		return
	}

	if err := h.container.Mount(instance); err != nil {
		log.Warn("mount failed", "error", err)
		_ = instance.Close()
		return
	}
	previous := h.current
	h.current = instance
	if previous != nil {
		_ = previous.Close()
	}
}

func parseBoolAttr(value string) (bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return true, nil
	}
	return strconv.ParseBool(trimmed)
}
