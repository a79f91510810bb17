package compiler

import (
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

// InputType maps a field type onto the HTML input type used in edit mode.
func InputType(fieldType metadata.FieldType) string {
	switch fieldType {
	case metadata.FieldTypeInt, metadata.FieldTypeDouble, metadata.FieldTypePercent, metadata.FieldTypeCurrency:
		return "number"
	case metadata.FieldTypePhone:
		return "tel"
	case metadata.FieldTypeDate:
		return "date"
	case metadata.FieldTypeDateTime:
		return "datetime-local"
	case metadata.FieldTypeTime:
		return "time"
	case metadata.FieldTypeURL:
		return "url"
	case metadata.FieldTypeEmail:
		return "email"
	case metadata.FieldTypeBase64:
		return "file"
	default:
		return "text"
	}
}

func fieldMarkup(path string, field metadata.FieldDescriptor, display string, editable bool) string {
	var b strings.Builder
	b.WriteString(`<span class="`)
	b.WriteString(escapeText(string(field.Type)))
	b.WriteString(`" data-field-name="`)
	b.WriteString(escapeText(path))
	b.WriteString(`">`)

	if editable {
		editMarkup(&b, path, field, display)
	} else {
		viewMarkup(&b, field, display)
	}

	b.WriteString(`</span>`)
	return b.String()
}

func viewMarkup(b *strings.Builder, field metadata.FieldDescriptor, display string) {
	switch {
	case field.Type == metadata.FieldTypeBoolean:
		b.WriteString(`<input type="checkbox"`)
		b.WriteString(binding(display, "checked"))
		b.WriteString(` disabled="true"/>`)
	case field.HTMLFormatted:
		b.WriteString(binding(display, "richtext"))
	default:
		b.WriteString(binding(display, ""))
	}
}

func editMarkup(b *strings.Builder, path string, field metadata.FieldDescriptor, display string) {
	name := escapeText(path)
	switch field.Type {
	case metadata.FieldTypeBoolean:
		b.WriteString(`<input type="checkbox" name="`)
		b.WriteString(name)
		b.WriteString(`"`)
		b.WriteString(binding(display, "checked"))
		b.WriteString(`/>`)
	case metadata.FieldTypePicklist:
		b.WriteString(`<select name="`)
		b.WriteString(name)
		b.WriteString(`">`)
		for _, option := range field.PicklistValues {
			b.WriteString(`<option value="`)
			b.WriteString(escapeText(option.Value))
			b.WriteString(`"`)
			b.WriteString(binding(display, `selected:`+quote(option.Value)))
			b.WriteString(`>`)
			b.WriteString(escapeText(option.Label))
			b.WriteString(`</option>`)
		}
		b.WriteString(`</select>`)
	case metadata.FieldTypeTextArea:
		// Single-line input kept for parity with existing layouts.
		b.WriteString(`<input type="textarea" name="`)
		b.WriteString(name)
		b.WriteString(`" value="`)
		b.WriteString(binding(display, ""))
		b.WriteString(`"/>`)
	default:
		b.WriteString(`<input type="`)
		b.WriteString(InputType(field.Type))
		b.WriteString(`" name="`)
		b.WriteString(name)
		b.WriteString(`" value="`)
		b.WriteString(binding(display, ""))
		b.WriteString(`"`)
		if field.Length > 0 {
			b.WriteString(` maxlength="`)
			b.WriteString(strconv.Itoa(field.Length))
			b.WriteString(`"`)
		}
		b.WriteString(`/>`)
	}
}

func binding(path, filter string) string {
	if filter == "" {
		return "{{" + path + "}}"
	}
	return "{{" + path + "|" + filter + "}}"
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(value string) string {
	return `"` + literalEscaper.Replace(value) + `"`
}

// escapeText escapes metadata-provided text and neutralises template
// delimiters so labels cannot inject bindings.
func escapeText(value string) string {
	return strings.ReplaceAll(html.EscapeString(value), "{", "&#123;")
}
