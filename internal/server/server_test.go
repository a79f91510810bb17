package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
	"github.com/goliatone/go-recordlayout/pkg/render"
	"github.com/goliatone/go-recordlayout/pkg/testsupport"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := testsupport.MustLoadMetadata(t)
	pipeline, err := render.NewPipeline(store, store,
		render.WithRecords(testsupport.MustLoadRecords(t)),
		render.WithLocation(time.UTC),
		render.WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	srv, err := New(pipeline, WithLogger(logger))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	status, body := get(t, ts, "/healthz")
	if status != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Fatalf("unexpected health response %d %s", status, body)
	}
}

func TestDescribeObject(t *testing.T) {
	ts := newTestServer(t)

	status, body := get(t, ts, "/objects/Account")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var desc metadata.ObjectDescribe
	if err := json.Unmarshal([]byte(body), &desc); err != nil {
		t.Fatalf("decode describe: %v", err)
	}
	if desc.Name != "Account" || len(desc.Fields) == 0 {
		t.Fatalf("unexpected describe %+v", desc)
	}

	status, body = get(t, ts, "/objects/Nope")
	if status != http.StatusNotFound || !strings.Contains(body, "NOT_FOUND") {
		t.Fatalf("expected 404, got %d: %s", status, body)
	}
}

func TestRecordPage(t *testing.T) {
	ts := newTestServer(t)

	status, body := get(t, ts, "/records/Account/"+testsupport.AccountID+"?variant=dark")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	for _, fragment := range []string{
		`<title>Account</title>`,
		`--color-text: #f3f2f2;`,
		`<span class="string" data-field-name="Name">Acme &amp; Sons</span>`,
	} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in\n%s", fragment, body)
		}
	}
}

func TestRecordFragment(t *testing.T) {
	ts := newTestServer(t)

	status, body := get(t, ts, "/records/Case/"+testsupport.SupportCaseID+"?fragment=true&edit=1")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if strings.Contains(body, "<title>") || !strings.Contains(body, `name="Subject"`) {
		t.Fatalf("expected bare edit fragment, got\n%s", body)
	}

	status, body = get(t, ts, "/records/Account/"+testsupport.AccountID+"?fragment=1&fields=Name")
	if status != http.StatusOK || !strings.Contains(body, `data-field-name="Name"`) || strings.Contains(body, "Industry") {
		t.Fatalf("unexpected field list fragment %d\n%s", status, body)
	}
}

func TestRecordErrors(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{name: "missing record", path: "/records/Account/001MISSING", status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "bad flag", path: "/records/Account/" + testsupport.AccountID + "?edit=maybe", status: http.StatusBadRequest, code: "INVALID_PARAM"},
		{name: "unknown theme", path: "/records/Account/" + testsupport.AccountID + "?theme=neon", status: http.StatusBadRequest, code: "UNKNOWN_THEME"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := get(t, ts, tc.path)
			if status != tc.status || !strings.Contains(body, tc.code) {
				t.Fatalf("expected %d %s, got %d: %s", tc.status, tc.code, status, body)
			}
		})
	}
}
