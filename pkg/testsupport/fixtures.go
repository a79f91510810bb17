package testsupport

import (
	"bytes"
	"context"
	"embed"
	"io"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordlayout/pkg/describe"
	"github.com/goliatone/go-recordlayout/pkg/record"
)

//go:embed testdata/crm/*.yaml
var crmFixtures embed.FS

// Record identifiers present in the CRM fixtures.
const (
	AccountID           = "001A00000000001AAA"
	UserID              = "005A00000000001AAA"
	SupportCaseID       = "500A00000000001AAA"
	BillingCaseID       = "500A00000000002AAA"
	SupportRecordTypeID = "012A00000000001AAA"
	BillingRecordTypeID = "012A00000000002AAA"
)

// FixturesFS returns the CRM fixture files: object describes, layouts and
// records for Account, User and Case.
func FixturesFS() fs.FS {
	sub, err := fs.Sub(crmFixtures, "testdata/crm")
	if err != nil {
		panic(err)
	}
	return sub
}

// MustLoadMetadata loads the CRM describes and layouts.
func MustLoadMetadata(t *testing.T) *describe.Store {
	t.Helper()

	store, err := describe.LoadFS(FixturesFS())
	if err != nil {
		t.Fatalf("load metadata fixtures: %v", err)
	}
	return store
}

// MustLoadRecords loads the CRM records.
func MustLoadRecords(t *testing.T) *record.Store {
	t.Helper()

	store, err := record.LoadFS(FixturesFS())
	if err != nil {
		t.Fatalf("load record fixtures: %v", err)
	}
	return store
}

// MustOpenRecord opens a fixture record.
func MustOpenRecord(t *testing.T, store record.Source, objectType, id string) record.Model {
	t.Helper()

	model, err := store.Record(context.Background(), objectType, id)
	if err != nil {
		t.Fatalf("open %s %s: %v", objectType, id, err)
	}
	return model
}

// Diff returns a cmp diff when the values differ.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
