package metadata

import "testing"

func TestFieldListSectionWrapsEveryTwoItems(t *testing.T) {
	fields := []FieldComponent{
		{Path: "Name", Descriptor: &FieldDescriptor{Name: "Name", Label: "Opportunity Name"}},
		{Path: "Amount", Descriptor: &FieldDescriptor{Name: "Amount", Label: "Amount"}},
		{Path: "CloseDate", Descriptor: &FieldDescriptor{Name: "CloseDate", Label: "Close Date"}},
	}

	section := FieldListSection(fields, true)

	if section.Columns != 2 || section.Heading != "" {
		t.Fatalf("unexpected section header: %+v", section)
	}
	if len(section.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(section.Rows))
	}
	if len(section.Rows[0].Items) != 2 || len(section.Rows[1].Items) != 1 {
		t.Fatalf("unexpected row sizes: %d, %d", len(section.Rows[0].Items), len(section.Rows[1].Items))
	}

	want := [][]string{{"Name", "Amount"}, {"CloseDate"}}
	for i, row := range section.Rows {
		for j, item := range row.Items {
			field := item.Components[0].(FieldComponent)
			if field.Path != want[i][j] {
				t.Fatalf("row %d item %d = %q, want %q", i, j, field.Path, want[i][j])
			}
			if !item.Editable || item.Placeholder {
				t.Fatalf("row %d item %d flags wrong: %+v", i, j, item)
			}
		}
	}
	if section.Rows[1].Items[0].Label != "Close Date" {
		t.Fatalf("expected label from descriptor, got %q", section.Rows[1].Items[0].Label)
	}
}

func TestFieldListSectionEvenAndEmpty(t *testing.T) {
	if rows := FieldListSection(nil, false).Rows; len(rows) != 0 {
		t.Fatalf("expected no rows for empty field list, got %d", len(rows))
	}
	two := []FieldComponent{{Path: "A"}, {Path: "B"}}
	if rows := FieldListSection(two, false).Rows; len(rows) != 1 {
		t.Fatalf("expected single row for two fields, got %d", len(rows))
	}
}
