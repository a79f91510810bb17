package describe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

// Vendor extensions read from OpenAPI property schemas.
const (
	ExtensionFieldType        = "x-field-type"
	ExtensionReferenceTo      = "x-reference-to"
	ExtensionRelationshipName = "x-relationship-name"
	ExtensionHTMLFormatted    = "x-html-formatted"
)

// OpenAPI serves object describes derived from the component schemas of an
// OpenAPI 3 document. Each schema under components.schemas becomes an object
// type whose properties become fields.
type OpenAPI struct {
	objects map[string]metadata.ObjectDescribe
}

var _ metadata.Describer = (*OpenAPI)(nil)

// NewOpenAPI parses an OpenAPI document (JSON or YAML) and converts its
// component schemas. References are resolved by the kin-openapi loader.
func NewOpenAPI(ctx context.Context, data []byte) (*OpenAPI, error) {
	if ctx == nil {
		return nil, errors.New("describe: context is required")
	}
	names, err := componentSchemaNames(data)
	if err != nil {
		return nil, err
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("describe: load openapi document: %w", err)
	}

	objects := make(map[string]metadata.ObjectDescribe, len(names))
	if len(names) > 0 {
		schemas := doc.Components.Schemas
		for _, name := range names {
			ref := schemas[name]
			if ref == nil || ref.Value == nil {
				continue
			}
			objects[name] = convertObject(name, ref.Value)
		}
	}
	return &OpenAPI{objects: objects}, nil
}

// DescribeObject implements metadata.Describer.
func (o *OpenAPI) DescribeObject(ctx context.Context, objectType string) (metadata.ObjectDescribe, error) {
	if err := ctx.Err(); err != nil {
		return metadata.ObjectDescribe{}, err
	}
	describe, ok := o.objects[objectType]
	if !ok {
		return metadata.ObjectDescribe{}, fmt.Errorf("%w: %q", ErrObjectNotFound, objectType)
	}
	return describe, nil
}

// componentSchemaNames lists components.schemas keys in sorted order, so
// documents without components never reach the typed model.
func componentSchemaNames(data []byte) ([]string, error) {
	var raw struct {
		Components struct {
			Schemas map[string]any `yaml:"schemas"`
		} `yaml:"components"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("describe: parse openapi document: %w", err)
	}
	names := make([]string, 0, len(raw.Components.Schemas))
	for name := range raw.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func convertObject(name string, schema *openapi3.Schema) metadata.ObjectDescribe {
	describe := metadata.ObjectDescribe{
		Name:  name,
		Label: firstNonEmpty(schema.Title, name),
	}

	props := make([]string, 0, len(schema.Properties))
	for prop := range schema.Properties {
		props = append(props, prop)
	}
	sort.Strings(props)

	for _, prop := range props {
		ref := schema.Properties[prop]
		if ref == nil || ref.Value == nil {
			continue
		}
		describe.Fields = append(describe.Fields, convertField(prop, ref.Value))
	}
	return describe
}

func convertField(name string, schema *openapi3.Schema) metadata.FieldDescriptor {
	field := metadata.FieldDescriptor{
		Name:          name,
		Label:         firstNonEmpty(schema.Title, name),
		Type:          fieldType(schema),
		Updateable:    !schema.ReadOnly,
		HTMLFormatted: boolExtension(schema.Extensions, ExtensionHTMLFormatted),
	}
	if schema.MaxLength != nil {
		field.Length = int(*schema.MaxLength)
	}
	if field.Type == metadata.FieldTypePicklist {
		for _, value := range schema.Enum {
			text := fmt.Sprint(value)
			field.PicklistValues = append(field.PicklistValues, metadata.PicklistValue{Value: text, Label: text})
		}
	}
	if targets := stringsExtension(schema.Extensions, ExtensionReferenceTo); len(targets) > 0 {
		field.Type = metadata.FieldTypeReference
		field.ReferenceTo = targets
		field.RelationshipName = stringExtension(schema.Extensions, ExtensionRelationshipName)
		if field.RelationshipName == "" {
			field.RelationshipName = strings.TrimSuffix(name, "Id")
		}
	}
	return field
}

func fieldType(schema *openapi3.Schema) metadata.FieldType {
	if override := stringExtension(schema.Extensions, ExtensionFieldType); override != "" {
		return metadata.FieldType(override)
	}
	if len(schema.Enum) > 0 {
		return metadata.FieldTypePicklist
	}

	switch firstSchemaType(schema.Type) {
	case "integer":
		return metadata.FieldTypeInt
	case "number":
		return metadata.FieldTypeDouble
	case "boolean":
		return metadata.FieldTypeBoolean
	case "string":
		switch schema.Format {
		case "date":
			return metadata.FieldTypeDate
		case "date-time":
			return metadata.FieldTypeDateTime
		case "time":
			return metadata.FieldTypeTime
		case "email":
			return metadata.FieldTypeEmail
		case "uri", "url":
			return metadata.FieldTypeURL
		case "byte", "binary":
			return metadata.FieldTypeBase64
		case "textarea":
			return metadata.FieldTypeTextArea
		}
		return metadata.FieldTypeString
	default:
		return metadata.FieldTypeString
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func stringExtension(ext map[string]any, key string) string {
	if value, ok := ext[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func stringsExtension(ext map[string]any, key string) []string {
	switch value := ext[key].(type) {
	case string:
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return []string{trimmed}
		}
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if text, ok := item.(string); ok && strings.TrimSpace(text) != "" {
				out = append(out, strings.TrimSpace(text))
			}
		}
		return out
	}
	return nil
}

func boolExtension(ext map[string]any, key string) bool {
	value, _ := ext[key].(bool)
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
