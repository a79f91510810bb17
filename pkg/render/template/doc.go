// Package template defines the template engine seam used to instantiate
// compiled layouts. The gotemplate subpackage provides the pongo2-backed
// implementation.
package template
