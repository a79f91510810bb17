package metadata

import "context"

// Describer returns the describe payload of an object type. Implementations
// return an error when the type is unknown or the source is unavailable.
type Describer interface {
	DescribeObject(ctx context.Context, objectType string) (ObjectDescribe, error)
}

// LayoutDescriber returns the layout sections configured for an object type,
// record type and mode.
type LayoutDescriber interface {
	FetchLayoutSections(ctx context.Context, objectType, recordTypeID string, mode Mode) ([]LayoutSection, error)
}

// DescriberFunc adapts a function into a Describer.
type DescriberFunc func(ctx context.Context, objectType string) (ObjectDescribe, error)

// DescribeObject calls the underlying function.
func (fn DescriberFunc) DescribeObject(ctx context.Context, objectType string) (ObjectDescribe, error) {
	return fn(ctx, objectType)
}
