package viewmodel

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordlayout/pkg/compiler"
	"github.com/goliatone/go-recordlayout/pkg/metadata"
	"github.com/goliatone/go-recordlayout/pkg/record"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestProxyFormatsDateTimeWithZeroBasedMonth(t *testing.T) {
	model := record.NewMemory("006", map[string]any{"CloseDate": "2024-03-01T00:00:00"}, nil)
	proxy := New(model, map[string]metadata.FieldDescriptor{
		"CloseDate": {Name: "CloseDate", Type: metadata.FieldTypeDateTime},
	}, WithLocation(time.UTC))
	defer proxy.Close()

	got, ok := proxy.Get("CloseDate")
	if !ok {
		t.Fatalf("expected CloseDate property")
	}
	// Month component 03 is read as a 0-based index, i.e. April.
	if got != "4/1/2024, 12:00:00 AM" {
		t.Fatalf("unexpected datetime %v", got)
	}
}

func TestProxyFormatsDates(t *testing.T) {
	model := record.NewMemory("006", map[string]any{
		"Start":   "2024-03-01",
		"Missing": nil,
		"Label":   "2024-03-01",
	}, nil)
	proxy := New(model, map[string]metadata.FieldDescriptor{
		"Start":   {Name: "Start", Type: metadata.FieldTypeDate},
		"Missing": {Name: "Missing", Type: metadata.FieldTypeDateTime},
		"Label":   {Name: "Label", Type: metadata.FieldTypeString},
	})
	defer proxy.Close()

	if got, _ := proxy.Get("Start"); got != "Fri Mar 01 2024" {
		t.Fatalf("unexpected date %v", got)
	}
	if got, _ := proxy.Get("Missing"); got != nil {
		t.Fatalf("nil datetime must pass through, got %v", got)
	}
	if got, _ := proxy.Get("Label"); got != "2024-03-01" {
		t.Fatalf("string fields must be raw, got %v", got)
	}
}

func TestFormatDateTime(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  any
	}{
		{name: "salesforce", value: "2023-11-30T13:45:07.000+0000", want: "12/30/2023, 1:45:07 PM"},
		{name: "date only", value: "2024-00-15", want: "1/15/2024, 12:00:00 AM"},
		{name: "too short", value: "2024", want: "2024"},
		{name: "empty", value: "", want: ""},
		{name: "time", value: time.Date(2024, time.May, 2, 9, 5, 0, 0, time.UTC), want: "5/2/2024, 9:05:00 AM"},
		{name: "number", value: 42, want: 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, FormatDateTime(tc.value, time.UTC)); diff != "" {
				t.Fatalf("FormatDateTime mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type gatedReader struct {
	gate chan struct{}
	r    io.Reader
}

func (g *gatedReader) Read(p []byte) (int, error) {
	<-g.gate
	return g.r.Read(p)
}

func TestProxyFileWriteIsAsynchronous(t *testing.T) {
	model := record.NewMemory("006", map[string]any{"Logo": "old"}, nil)
	proxy := New(model, map[string]metadata.FieldDescriptor{
		"Logo": {Name: "Logo", Type: metadata.FieldTypeBase64},
	})
	defer proxy.Close()

	reader := &gatedReader{gate: make(chan struct{}), r: bytes.NewReader(pngHeader)}
	if err := proxy.Set("Logo", reader); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := model.Get("Logo"); got != "old" {
		t.Fatalf("file write must not be visible synchronously, got %v", got)
	}

	close(reader.gate)
	if err := proxy.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	got, _ := model.Get("Logo").(string)
	if !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Fatalf("unexpected data url %q", got)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestProxyFileWriteErrors(t *testing.T) {
	model := record.NewMemory("006", map[string]any{"Logo": "old", "Name": "Acme"}, nil)
	proxy := New(model, map[string]metadata.FieldDescriptor{
		"Logo": {Name: "Logo", Type: metadata.FieldTypeBase64},
	})
	defer proxy.Close()

	if err := proxy.Set("Logo", "not a file"); !errors.Is(err, ErrNotFile) {
		t.Fatalf("expected ErrNotFile, got %v", err)
	}
	if err := proxy.Set("Logo", nil); err != nil {
		t.Fatalf("nil file should be ignored, got %v", err)
	}
	if err := proxy.Set("Logo", failingReader{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := proxy.Wait(); err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("expected encode error, got %v", err)
	}
	if got := model.Get("Logo"); got != "old" {
		t.Fatalf("failed encoding must not write, got %v", got)
	}
	if err := proxy.Set("Missing", "x"); !errors.Is(err, ErrUnknownProperty) {
		t.Fatalf("expected ErrUnknownProperty, got %v", err)
	}
}

func TestProxyWritesThroughSynchronously(t *testing.T) {
	model := record.NewMemory("006", map[string]any{"Name": "Acme"}, nil)
	proxy := New(model, nil)
	defer proxy.Close()

	if err := proxy.Set("Name", "Globex"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := model.Get("Name"); got != "Globex" {
		t.Fatalf("expected write through, got %v", got)
	}
}

func TestProxyExposesAttributesAddedLater(t *testing.T) {
	model := record.NewMemory("006", map[string]any{"Name": "Acme"}, nil)
	proxy := New(model, nil)

	if diff := cmp.Diff([]string{"Name"}, proxy.Properties()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}

	model.SetAll(map[string]any{"Industry": "Energy", "Owner": map[string]any{"Name": "Ada"}})

	if diff := cmp.Diff([]string{"Industry", "Name", "Owner"}, proxy.Properties()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
	if got, ok := proxy.Get("Industry"); !ok || got != "Energy" {
		t.Fatalf("expected new attribute, got %v %v", got, ok)
	}

	if err := proxy.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	model.Set("Late", true)
	if _, ok := proxy.Get("Late"); ok {
		t.Fatalf("closed proxy must stop tracking the model")
	}
}

func TestProxyValuesIncludeErrors(t *testing.T) {
	model := record.NewMemory("006", map[string]any{"Name": "Acme"}, nil)
	model.SetError("Name", "required")
	proxy := New(model, nil)
	defer proxy.Close()

	want := map[string]any{
		"Name":             "Acme",
		compiler.ErrorsKey: map[string]any{"Name": "required"},
	}
	if diff := cmp.Diff(want, proxy.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestDataURLTextMediaType(t *testing.T) {
	got, err := DataURL(strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("DataURL: %v", err)
	}
	if got != "data:text/plain;charset=utf-8;base64,aGVsbG8=" {
		t.Fatalf("unexpected data url %q", got)
	}
}
