// Package render turns live host attributes into bound layout instances.
//
// A Pipeline runs one render pass: it picks the layout sections through
// layout.Fetcher, compiles them with the compiler package, loads the referenced
// fields on the record and wraps the record in a viewmodel.Proxy. The result
// is an Instance that executes the compiled markup against the proxy.
//
// A Host owns the live attributes of a rendered view. Attribute writes are
// debounced into a single render pass, every pass carries a generation number,
// and passes superseded by newer writes are cancelled and their results
// discarded before they reach the Container.
package render
