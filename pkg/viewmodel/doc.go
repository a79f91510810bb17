// Package viewmodel exposes a record.Model to templates through a typed view
// model. Reads format date and datetime fields for display, writes to file
// fields are encoded into data URLs in the background, and attributes that
// appear on the record after construction become available without
// rebuilding the view model.
package viewmodel
