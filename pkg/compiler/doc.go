// Package compiler turns layout sections into bindable markup.
//
// Compile walks sections, rows, items and components and emits the
// sf-layout-* markup used by record detail and edit views. Field values are
// bound with pongo2 expressions ({{Path}}, {{Path|checked}},
// {{Path|selected:"value"}}, {{Path|richtext}} and {{__errors__.Path}}) that
// the render package instantiates against a viewmodel.Proxy. The compiler holds
// no state: identical input always yields byte-identical output.
package compiler
