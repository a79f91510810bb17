package compiler

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

// ErrorsKey is the template context key holding per-field save errors.
const ErrorsKey = "__errors__"

// geolocationSuffix marks the internal companion field that compound
// geolocation fields add to layouts.
const geolocationSuffix = "__XyzEncoded__s"

var bindablePath = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Template is the result of compiling layout sections.
type Template struct {
	// Markup holds the template source.
	Markup string
	// Fields lists every referenced field path, raw and display, in first-seen
	// order without duplicates.
	Fields []string
	// Descriptors maps each path in Fields to its descriptor. Display paths of
	// reference fields map to the reference field's own descriptor.
	Descriptors map[string]metadata.FieldDescriptor
	// EditableFields lists the raw paths rendered as inputs.
	EditableFields []string
}

// Compile renders sections into a Template.
func Compile(sections []metadata.LayoutSection) Template {
	b := newBuilder()
	for _, section := range sections {
		b.section(section)
	}
	return b.template()
}

// CompileFields renders an explicit field list through the same code path as
// Compile, using metadata.FieldListSection to lay it out.
func CompileFields(fields []metadata.FieldComponent, forEdit bool) Template {
	return Compile([]metadata.LayoutSection{metadata.FieldListSection(fields, forEdit)})
}

// DisplayPath returns the path rendered for a field. Reference fields show the
// related record's name (CaseNumber for cases) instead of the raw id.
func DisplayPath(path string, field metadata.FieldDescriptor) string {
	if !field.IsReference() {
		return path
	}
	if len(field.ReferenceTo) == 1 && field.ReferenceTo[0] == "Case" {
		return field.RelationshipName + ".CaseNumber"
	}
	return field.RelationshipName + ".Name"
}

// IsEditable reports whether a field renders as an input inside an item with
// the given editable flag. Reference fields are never editable.
func IsEditable(itemEditable bool, field metadata.FieldDescriptor) bool {
	return itemEditable && !field.IsReference() && field.Updateable
}

// Skipped reports whether a field path is excluded from compiled output.
func Skipped(path string) bool {
	return strings.HasSuffix(path, geolocationSuffix) || !bindablePath.MatchString(path)
}

type builder struct {
	out         strings.Builder
	fields      []string
	descriptors map[string]metadata.FieldDescriptor
	editable    []string
	seen        map[string]struct{}
}

func newBuilder() *builder {
	return &builder{
		descriptors: make(map[string]metadata.FieldDescriptor),
		seen:        make(map[string]struct{}),
	}
}

func (b *builder) template() Template {
	return Template{
		Markup:         b.out.String(),
		Fields:         b.fields,
		Descriptors:    b.descriptors,
		EditableFields: b.editable,
	}
}

func (b *builder) track(path string, field metadata.FieldDescriptor) {
	b.descriptors[path] = field
	if _, ok := b.seen[path]; ok {
		return
	}
	b.seen[path] = struct{}{}
	b.fields = append(b.fields, path)
}

func (b *builder) section(section metadata.LayoutSection) {
	b.out.WriteString(`<div class="sf-layout-section">`)
	b.out.WriteString(`<h1 class="sf-layout-section-heading">`)
	b.out.WriteString(escapeText(section.Heading))
	b.out.WriteString(`</h1>`)

	itemClass := "sf-layout-item"
	if section.Columns > 1 {
		itemClass += " ui-block"
	}
	for _, row := range section.Rows {
		b.out.WriteString(`<div class="sf-layout-row ui-responsive">`)
		for _, item := range row.Items {
			b.out.WriteString(`<div class="`)
			b.out.WriteString(itemClass)
			b.out.WriteString(`">`)
			if !item.Placeholder {
				b.item(item)
			}
			b.out.WriteString(`</div>`)
		}
		b.out.WriteString(`</div>`)
	}
	b.out.WriteString(`</div>`)
}

func (b *builder) item(item metadata.LayoutItem) {
	b.out.WriteString(`<div class="sf-layout-item-label">`)
	b.out.WriteString(escapeText(item.Label))
	b.out.WriteString(`</div>`)

	var errs, value strings.Builder
	value.WriteString(`<div class="sf-layout-item-value">`)
	for _, comp := range item.Components {
		switch c := comp.(type) {
		case metadata.SeparatorComponent:
			value.WriteString(c.Value)
		case metadata.FieldComponent:
			if c.Descriptor == nil || Skipped(c.Path) {
				continue
			}
			field := *c.Descriptor
			display := DisplayPath(c.Path, field)
			if Skipped(display) {
				continue
			}
			b.track(c.Path, field)
			if display != c.Path {
				b.track(display, field)
			}

			editable := IsEditable(item.Editable, field)
			value.WriteString(fieldMarkup(c.Path, field, display, editable))
			if editable {
				b.editable = append(b.editable, c.Path)
				errs.WriteString(`<div class="sf-layout-item-error">{{`)
				errs.WriteString(ErrorsKey)
				errs.WriteByte('.')
				errs.WriteString(c.Path)
				errs.WriteString(`}}</div>`)
			}
		}
	}
	b.out.WriteString(errs.String())
	b.out.WriteString(value.String())
	b.out.WriteString(`</div>`)
}
