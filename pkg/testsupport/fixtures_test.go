package testsupport

import (
	"testing"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

func TestFixturesLoad(t *testing.T) {
	store := MustLoadMetadata(t)
	if diff := Diff([]string{"Account", "Case", "User"}, store.Objects()); diff != "" {
		t.Fatalf("objects mismatch (-want +got):\n%s", diff)
	}

	caseDescribe, err := store.DescribeObject(Context(), "Case")
	if err != nil {
		t.Fatalf("describe Case: %v", err)
	}
	if !caseDescribe.HasRecordTypes() {
		t.Fatalf("Case fixtures must use record types")
	}

	sections, err := store.FetchLayoutSections(Context(), "Case", SupportRecordTypeID, metadata.ModeView)
	if err != nil {
		t.Fatalf("fetch Case layout: %v", err)
	}
	if len(sections) != 1 || sections[0].Heading != "Support Case" {
		t.Fatalf("unexpected sections %+v", sections)
	}

	records := MustLoadRecords(t)
	model := MustOpenRecord(t, records, "Case", SupportCaseID)
	if err := model.Fetch(Context(), []string{"Subject", "Parent.CaseNumber"}); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if model.Get("Subject") != "Turbine noise" {
		t.Fatalf("unexpected subject %v", model.Get("Subject"))
	}
	parent, ok := model.Get("Parent").(map[string]any)
	if !ok || parent["CaseNumber"] != "00001000" {
		t.Fatalf("unexpected parent %#v", model.Get("Parent"))
	}
}
