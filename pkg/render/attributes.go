package render

import "strings"

// Attribute names accepted by Host.SetAttribute.
const (
	AttrSObject      = "sobject"
	AttrFieldList    = "fieldlist"
	AttrForEdit      = "foredit"
	AttrRecordID     = "recordid"
	AttrRecordTypeID = "recordtypeid"
)

// Attributes are the inputs of a render pass.
type Attributes struct {
	// SObject is the object type name.
	SObject string `json:"sobject" yaml:"sobject"`
	// FieldList is an optional comma separated list of field paths. When set
	// the configured layout is ignored.
	FieldList    string `json:"fieldlist,omitempty" yaml:"fieldlist,omitempty"`
	ForEdit      bool   `json:"foredit,omitempty" yaml:"foredit,omitempty"`
	RecordID     string `json:"recordid,omitempty" yaml:"recordid,omitempty"`
	RecordTypeID string `json:"recordtypeid,omitempty" yaml:"recordtypeid,omitempty"`
}

// Fields splits FieldList into trimmed, non-empty paths.
func (a Attributes) Fields() []string {
	return ParseFieldList(a.FieldList)
}

// ParseFieldList splits a comma separated field list.
func ParseFieldList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
