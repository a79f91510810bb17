package describe

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

type documentFile struct {
	Objects []metadata.ObjectDescribe `json:"objects" yaml:"objects"`
	Layouts []layoutFile              `json:"layouts" yaml:"layouts"`
}

type layoutFile struct {
	Object       string        `json:"object" yaml:"object"`
	RecordTypeID string        `json:"recordTypeId" yaml:"recordTypeId"`
	Mode         string        `json:"mode" yaml:"mode"`
	Sections     []sectionFile `json:"sections" yaml:"sections"`
}

type sectionFile struct {
	Heading string    `json:"heading" yaml:"heading"`
	Columns int       `json:"columns" yaml:"columns"`
	Rows    []rowFile `json:"rows" yaml:"rows"`
}

type rowFile struct {
	Items []itemFile `json:"items" yaml:"items"`
}

type itemFile struct {
	Placeholder bool            `json:"placeholder" yaml:"placeholder"`
	Editable    bool            `json:"editable" yaml:"editable"`
	Label       string          `json:"label" yaml:"label"`
	Components  []componentFile `json:"components" yaml:"components"`
}

type componentFile struct {
	Type    string                    `json:"type" yaml:"type"`
	Value   string                    `json:"value" yaml:"value"`
	Details *metadata.FieldDescriptor `json:"details" yaml:"details"`
}

func (l layoutFile) toSections() ([]metadata.LayoutSection, error) {
	sections := make([]metadata.LayoutSection, 0, len(l.Sections))
	for _, section := range l.Sections {
		out := metadata.LayoutSection{
			Heading: section.Heading,
			Columns: section.Columns,
			Rows:    make([]metadata.LayoutRow, 0, len(section.Rows)),
		}
		for _, row := range section.Rows {
			items := make([]metadata.LayoutItem, 0, len(row.Items))
			for _, item := range row.Items {
				comps := make([]metadata.LayoutComponent, 0, len(item.Components))
				for _, comp := range item.Components {
					converted, err := comp.toComponent()
					if err != nil {
						return nil, err
					}
					comps = append(comps, converted)
				}
				items = append(items, metadata.LayoutItem{
					Placeholder: item.Placeholder,
					Editable:    item.Editable,
					Label:       item.Label,
					Components:  comps,
				})
			}
			out.Rows = append(out.Rows, metadata.LayoutRow{Items: items})
		}
		sections = append(sections, out)
	}
	return sections, nil
}

func (c componentFile) toComponent() (metadata.LayoutComponent, error) {
	switch strings.TrimSpace(c.Type) {
	case metadata.ComponentTypeField:
		if strings.TrimSpace(c.Value) == "" {
			return nil, fmt.Errorf("field component without value")
		}
		return metadata.FieldComponent{Path: strings.TrimSpace(c.Value), Descriptor: c.Details}, nil
	case metadata.ComponentTypeSeparator:
		return metadata.SeparatorComponent{Value: c.Value}, nil
	default:
		return nil, fmt.Errorf("unknown layout component type %q", c.Type)
	}
}
