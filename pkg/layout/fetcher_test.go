package layout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordlayout/pkg/describe"
	"github.com/goliatone/go-recordlayout/pkg/metadata"
	"github.com/goliatone/go-recordlayout/pkg/record"
)

func newStore() *describe.Store {
	store := describe.NewStore()
	store.AddObject(metadata.ObjectDescribe{
		Name: "Opportunity",
		Fields: []metadata.FieldDescriptor{
			{Name: "Name", Label: "Name", Type: metadata.FieldTypeString},
			{Name: "Amount", Label: "Amount", Type: metadata.FieldTypeCurrency},
			{Name: "CloseDate", Label: "Close Date", Type: metadata.FieldTypeDate},
		},
	})
	store.AddObject(metadata.ObjectDescribe{
		Name:   "Case",
		Fields: []metadata.FieldDescriptor{{Name: "Subject", Label: "Subject", Type: metadata.FieldTypeString}},
		RecordTypeInfos: []metadata.RecordTypeInfo{
			{ID: metadata.DefaultRecordTypeID, Name: "Master"},
			{ID: "012A", Name: "Support"},
			{ID: "012B", Name: "Billing"},
		},
	})
	store.AddLayout("Opportunity", metadata.DefaultRecordTypeID, metadata.ModeView, headed("Opportunity detail"))
	store.AddLayout("Opportunity", metadata.DefaultRecordTypeID, metadata.ModeEdit, headed("Opportunity edit"))
	store.AddLayout("Case", "012A", metadata.ModeView, headed("Support"))
	store.AddLayout("Case", "012B", metadata.ModeView, headed("Billing"))
	return store
}

func headed(heading string) []metadata.LayoutSection {
	return []metadata.LayoutSection{{Heading: heading, Columns: 1}}
}

func headings(sections []metadata.LayoutSection) []string {
	out := make([]string, 0, len(sections))
	for _, section := range sections {
		out = append(out, section.Heading)
	}
	return out
}

func TestFetchFieldListBuildsSyntheticSection(t *testing.T) {
	store := newStore()
	fetcher := NewFetcher(store, store, nil)

	sections, err := fetcher.Fetch(context.Background(), Config{
		Object:  "Opportunity",
		Fields:  []string{"Name", "Hidden", "Amount", "CloseDate"},
		ForEdit: true,
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected one section, got %d", len(sections))
	}
	section := sections[0]
	if section.Heading != "" || section.Columns != 2 {
		t.Fatalf("unexpected synthetic section %+v", section)
	}

	var rows [][]string
	for _, row := range section.Rows {
		var paths []string
		for _, item := range row.Items {
			if !item.Editable {
				t.Fatalf("synthetic items must follow the foredit flag")
			}
			paths = append(paths, item.Components[0].(metadata.FieldComponent).Path)
		}
		rows = append(rows, paths)
	}
	want := [][]string{{"Name", "Amount"}, {"CloseDate"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if label := section.Rows[1].Items[0].Label; label != "Close Date" {
		t.Fatalf("expected label from descriptor, got %q", label)
	}
}

func TestFetchDefaultRecordType(t *testing.T) {
	store := newStore()
	fetcher := NewFetcher(store, store, nil)

	for forEdit, want := range map[bool]string{false: "Opportunity detail", true: "Opportunity edit"} {
		sections, err := fetcher.Fetch(context.Background(), Config{Object: "Opportunity", ForEdit: forEdit, RecordTypeID: "ignored"})
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if diff := cmp.Diff([]string{want}, headings(sections)); diff != "" {
			t.Fatalf("headings mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestFetchExplicitRecordType(t *testing.T) {
	store := newStore()
	fetcher := NewFetcher(store, store, nil)

	sections, err := fetcher.Fetch(context.Background(), Config{Object: "Case", RecordTypeID: "012B"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if diff := cmp.Diff([]string{"Billing"}, headings(sections)); diff != "" {
		t.Fatalf("headings mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchRecordTypeFromRecord(t *testing.T) {
	store := newStore()
	records := record.NewStore()
	records.Put("Case", "500", map[string]any{"RecordTypeId": "012A", "Subject": "Broken"})

	model, err := records.Record(context.Background(), "Case", "500")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	sections, err := NewFetcher(store, store, nil).Fetch(context.Background(), Config{Object: "Case", Record: model})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if diff := cmp.Diff([]string{"Support"}, headings(sections)); diff != "" {
		t.Fatalf("headings mismatch (-want +got):\n%s", diff)
	}
	if model.Get("Subject") != nil {
		t.Fatalf("only the record type attribute should be fetched")
	}
}

func TestFetchRecordTypeNotResolvable(t *testing.T) {
	store := newStore()
	fetcher := NewFetcher(store, store, nil)

	cases := map[string]record.Model{
		"no record":      nil,
		"unsaved record": record.NewMemory("", nil, nil),
		"no attribute":   record.NewMemory("500", nil, nil),
	}
	for name, model := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fetcher.Fetch(context.Background(), Config{Object: "Case", Record: model})
			if !errors.Is(err, ErrNotResolvable) {
				t.Fatalf("expected ErrNotResolvable, got %v", err)
			}
		})
	}
}

func TestFetchRecordTypeFetchFailure(t *testing.T) {
	store := newStore()
	boom := errors.New("network down")
	model := record.NewMemory("500", nil, func(context.Context, []string) (map[string]any, error) {
		return nil, boom
	})

	_, err := NewFetcher(store, store, nil).Fetch(context.Background(), Config{Object: "Case", Record: model})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
	if errors.Is(err, ErrNotResolvable) {
		t.Fatalf("fetch failure must not read as unresolvable")
	}
}

func TestFetchMissingLayout(t *testing.T) {
	store := newStore()
	_, err := NewFetcher(store, store, nil).Fetch(context.Background(), Config{Object: "Case", RecordTypeID: "012Z"})
	if !errors.Is(err, describe.ErrLayoutNotFound) {
		t.Fatalf("expected ErrLayoutNotFound, got %v", err)
	}

	_, err = NewFetcher(store, store, nil).Fetch(context.Background(), Config{Object: "Lead"})
	if !errors.Is(err, describe.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}
