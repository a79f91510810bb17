// Package metadata defines the object describe and layout types shared by the
// resolver, layout fetcher, compiler and view model. Values are treated as
// immutable once a metadata source has produced them: the compiler and proxy
// never mutate descriptors they receive, so a single describe can back any
// number of concurrent render passes.
//
// Layout components form a closed sum type. FieldComponent and
// SeparatorComponent are the only implementations of LayoutComponent; callers
// switch on the concrete type instead of inspecting a type string.
package metadata
