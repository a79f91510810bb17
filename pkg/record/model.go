package record

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record does not exist in its source.
var ErrNotFound = errors.New("record: not found")

// Model is a live key-value record. Implementations must be safe for
// concurrent use: view models write to them from encoding goroutines.
type Model interface {
	// ID returns the record identifier; empty for records not yet saved.
	ID() string
	// Get returns the stored value for an attribute, nil when absent.
	Get(name string) any
	// Set stores a value and notifies subscribers.
	Set(name string, value any)
	// Attributes lists the attribute names currently present.
	Attributes() []string
	// Fetch loads the named field paths from the backing source.
	Fetch(ctx context.Context, fields []string) error
	// Subscribe registers fn to run after every change. The returned function
	// removes the subscription.
	Subscribe(fn func()) (unsubscribe func())
}

// ErrorSource is implemented by models that track per-field save errors.
type ErrorSource interface {
	Errors() map[string]string
}

// Source opens records by object type and identifier.
type Source interface {
	Record(ctx context.Context, objectType, id string) (Model, error)
}

// SourceFunc adapts a function into a Source.
type SourceFunc func(ctx context.Context, objectType, id string) (Model, error)

// Record calls the underlying function.
func (fn SourceFunc) Record(ctx context.Context, objectType, id string) (Model, error) {
	return fn(ctx, objectType, id)
}
