package metadata

// FieldListColumns is the column count of sections synthesised from an
// explicit field list.
const FieldListColumns = 2

// FieldListSection lays out fields in caller order as a single untitled
// two-column section, starting a new row after every second item.
func FieldListSection(fields []FieldComponent, editable bool) LayoutSection {
	section := LayoutSection{Columns: FieldListColumns}
	var row LayoutRow
	for _, field := range fields {
		label := ""
		if field.Descriptor != nil {
			label = field.Descriptor.Label
		}
		row.Items = append(row.Items, LayoutItem{
			Editable:   editable,
			Label:      label,
			Components: []LayoutComponent{field},
		})
		if len(row.Items) == FieldListColumns {
			section.Rows = append(section.Rows, row)
			row = LayoutRow{}
		}
	}
	if len(row.Items) > 0 {
		section.Rows = append(section.Rows, row)
	}
	return section
}
