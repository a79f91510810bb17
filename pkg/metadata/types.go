package metadata

// FieldType enumerates the platform field kinds the compiler knows how to
// render. Unknown kinds fall back to plain text rendering.
type FieldType string

const (
	FieldTypeString        FieldType = "string"
	FieldTypeText          FieldType = "text"
	FieldTypeID            FieldType = "id"
	FieldTypeInt           FieldType = "int"
	FieldTypeDouble        FieldType = "double"
	FieldTypeCurrency      FieldType = "currency"
	FieldTypePercent       FieldType = "percent"
	FieldTypePhone         FieldType = "phone"
	FieldTypeDate          FieldType = "date"
	FieldTypeDateTime      FieldType = "datetime"
	FieldTypeTime          FieldType = "time"
	FieldTypeURL           FieldType = "url"
	FieldTypeEmail         FieldType = "email"
	FieldTypeBoolean       FieldType = "boolean"
	FieldTypePicklist      FieldType = "picklist"
	FieldTypeMultiPicklist FieldType = "multipicklist"
	FieldTypeTextArea      FieldType = "textarea"
	FieldTypeBase64        FieldType = "base64"
	FieldTypeReference     FieldType = "reference"
	FieldTypeLocation      FieldType = "location"
)

// DefaultRecordTypeID is the master record type identifier used for objects
// that do not declare record types.
const DefaultRecordTypeID = "012000000000000AAA"

// PicklistValue is a single selectable option of a picklist field.
type PicklistValue struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FieldDescriptor describes a single field of an object as returned by a
// describe call.
type FieldDescriptor struct {
	Name             string          `json:"name" yaml:"name"`
	Label            string          `json:"label,omitempty" yaml:"label,omitempty"`
	Type             FieldType       `json:"type" yaml:"type"`
	Length           int             `json:"length,omitempty" yaml:"length,omitempty"`
	Updateable       bool            `json:"updateable" yaml:"updateable"`
	HTMLFormatted    bool            `json:"htmlFormatted,omitempty" yaml:"htmlFormatted,omitempty"`
	ReferenceTo      []string        `json:"referenceTo,omitempty" yaml:"referenceTo,omitempty"`
	RelationshipName string          `json:"relationshipName,omitempty" yaml:"relationshipName,omitempty"`
	PicklistValues   []PicklistValue `json:"picklistValues,omitempty" yaml:"picklistValues,omitempty"`
}

// IsReference reports whether the field points at another object.
func (f FieldDescriptor) IsReference() bool {
	return f.Type == FieldTypeReference
}

// RecordTypeInfo names one record type available on an object.
type RecordTypeInfo struct {
	ID        string `json:"recordTypeId" yaml:"recordTypeId"`
	Name      string `json:"name" yaml:"name"`
	Available bool   `json:"available" yaml:"available"`
	Default   bool   `json:"defaultRecordTypeMapping,omitempty" yaml:"defaultRecordTypeMapping,omitempty"`
}

// ObjectDescribe is the describe payload for a single object type.
type ObjectDescribe struct {
	Name            string            `json:"name" yaml:"name"`
	Label           string            `json:"label,omitempty" yaml:"label,omitempty"`
	Fields          []FieldDescriptor `json:"fields" yaml:"fields"`
	RecordTypeInfos []RecordTypeInfo  `json:"recordTypeInfos,omitempty" yaml:"recordTypeInfos,omitempty"`
}

// HasRecordTypes reports whether layouts for the object vary per record type.
// The implicit master record type does not count.
func (d ObjectDescribe) HasRecordTypes() bool {
	for _, info := range d.RecordTypeInfos {
		if info.ID != "" && info.ID != DefaultRecordTypeID {
			return true
		}
	}
	return false
}

// FieldByName returns the field with the given API name.
func (d ObjectDescribe) FieldByName(name string) (FieldDescriptor, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// FieldByRelationship returns the reference field whose relationship name
// matches name, e.g. "Owner" for OwnerId.
func (d ObjectDescribe) FieldByRelationship(name string) (FieldDescriptor, bool) {
	for _, field := range d.Fields {
		if field.RelationshipName != "" && field.RelationshipName == name {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}
