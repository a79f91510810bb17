// Package describe provides metadata sources for the layout pipeline: a Store
// backed by YAML/JSON fixture files, an OpenAPI backed describer that maps
// component schemas onto object describes, and a Cache that memoises describe
// calls for the lifetime of a process.
package describe
