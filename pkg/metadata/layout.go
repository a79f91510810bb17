package metadata

// Mode selects between the detail (read only) and edit layouts.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// ModeFor maps the host's foredit flag onto a Mode.
func ModeFor(forEdit bool) Mode {
	if forEdit {
		return ModeEdit
	}
	return ModeView
}

// LayoutSection groups rows under an optional heading.
type LayoutSection struct {
	Heading string      `json:"heading"`
	Columns int         `json:"columns"`
	Rows    []LayoutRow `json:"rows"`
}

// LayoutRow is an ordered list of items rendered side by side.
type LayoutRow struct {
	Items []LayoutItem `json:"items"`
}

// LayoutItem is a labelled cell. Placeholder items are spacers and carry no
// content.
type LayoutItem struct {
	Placeholder bool              `json:"placeholder"`
	Editable    bool              `json:"editable"`
	Label       string            `json:"label"`
	Components  []LayoutComponent `json:"components"`
}

// LayoutComponent is implemented by FieldComponent and SeparatorComponent only.
type LayoutComponent interface {
	layoutComponent()
}

// FieldComponent references a field of the laid out object. Descriptor may be
// nil when the metadata source could not supply details (for example because
// of field-level security); the compiler skips such components.
type FieldComponent struct {
	Path       string           `json:"value"`
	Descriptor *FieldDescriptor `json:"details,omitempty"`
}

// SeparatorComponent is trusted literal markup placed between fields.
type SeparatorComponent struct {
	Value string `json:"value"`
}

func (FieldComponent) layoutComponent()     {}
func (SeparatorComponent) layoutComponent() {}

// Component type names used by the wire format of layout describes.
const (
	ComponentTypeField     = "Field"
	ComponentTypeSeparator = "Separator"
)
