// Package record defines the live record contract consumed by the view model
// and render pipeline, together with an in-memory implementation used by the
// CLI, the preview server and tests.
package record
