package render

import (
	"errors"

	"github.com/goliatone/go-recordlayout/pkg/layout"
)

var (
	// ErrNoObject is returned when a render pass has no object type.
	ErrNoObject = errors.New("render: no object type")
	// ErrNoRecord is returned when a render pass has no saved record to bind.
	ErrNoRecord = errors.New("render: no record to bind")
	// ErrLayoutOverridden reports that the container supplies its own content
	// and the pass was skipped on purpose.
	ErrLayoutOverridden = errors.New("render: layout overridden")
	// ErrUnknownAttribute is returned by Host.SetAttribute for unsupported
	// attribute names.
	ErrUnknownAttribute = errors.New("render: unknown attribute")
)

// NothingRendered reports whether err only means a pass produced no output:
// missing inputs, an unresolvable record type or an overridden layout.
func NothingRendered(err error) bool {
	return errors.Is(err, ErrNoObject) ||
		errors.Is(err, ErrNoRecord) ||
		errors.Is(err, layout.ErrNotResolvable) ||
		errors.Is(err, ErrLayoutOverridden)
}
