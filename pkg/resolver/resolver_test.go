package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

type recordingDescriber struct {
	mu      sync.Mutex
	objects map[string]metadata.ObjectDescribe
	calls   []string
	fail    map[string]bool
}

func (d *recordingDescriber) DescribeObject(_ context.Context, objectType string) (metadata.ObjectDescribe, error) {
	d.mu.Lock()
	d.calls = append(d.calls, objectType)
	d.mu.Unlock()
	if d.fail[objectType] {
		return metadata.ObjectDescribe{}, errors.New("unavailable")
	}
	describe, ok := d.objects[objectType]
	if !ok {
		return metadata.ObjectDescribe{}, errors.New("unknown type")
	}
	return describe, nil
}

func newDescriber() *recordingDescriber {
	return &recordingDescriber{
		objects: map[string]metadata.ObjectDescribe{
			"Case": {Name: "Case", Fields: []metadata.FieldDescriptor{
				{Name: "Subject", Type: metadata.FieldTypeString, Label: "Subject"},
				{Name: "OwnerId", Type: metadata.FieldTypeReference, RelationshipName: "Owner", ReferenceTo: []string{"User", "Group"}},
				{Name: "AccountId", Type: metadata.FieldTypeReference, RelationshipName: "Account", ReferenceTo: []string{"Account"}},
			}},
			"User": {Name: "User", Fields: []metadata.FieldDescriptor{
				{Name: "Name", Type: metadata.FieldTypeString, Label: "Full Name"},
				{Name: "ManagerId", Type: metadata.FieldTypeReference, RelationshipName: "Manager", ReferenceTo: []string{"User"}},
			}},
		},
		fail: map[string]bool{"Account": true},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveFollowsRelationships(t *testing.T) {
	describer := newDescriber()
	r := New(describer, WithLogger(quietLogger()))

	field, ok := r.Resolve(context.Background(), "Case", "Owner.Name")
	if !ok {
		t.Fatalf("expected Owner.Name to resolve")
	}
	if field.Label != "Full Name" {
		t.Fatalf("expected User.Name descriptor, got %+v", field)
	}
	if diff := cmp.Diff([]string{"Case", "User"}, describer.calls); diff != "" {
		t.Fatalf("describe calls mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCases(t *testing.T) {
	r := New(newDescriber(), WithLogger(quietLogger()))

	cases := []struct {
		path string
		ok   bool
	}{
		{path: "Subject", ok: true},
		{path: "OwnerId", ok: true},
		{path: "Owner.Manager.Name", ok: true},
		{path: "Owner", ok: false},
		{path: "Nope.Name", ok: false},
		{path: "Owner.Missing", ok: false},
		{path: "Account.Name", ok: false},
		{path: "", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			if _, ok := r.Resolve(context.Background(), "Case", tc.path); ok != tc.ok {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tc.path, ok, tc.ok)
			}
		})
	}
}

func TestResolveAllKeepsOrderAndDropsAbsent(t *testing.T) {
	r := New(newDescriber(), WithLogger(quietLogger()), WithConcurrency(2))

	got := r.ResolveAll(context.Background(), "Case", []string{"Owner.Name", "Hidden__c", "Subject", "Account.Name", "OwnerId"})

	paths := make([]string, 0, len(got))
	for _, resolved := range got {
		paths = append(paths, resolved.Path)
	}
	if diff := cmp.Diff([]string{"Owner.Name", "Subject", "OwnerId"}, paths); diff != "" {
		t.Fatalf("resolved paths mismatch (-want +got):\n%s", diff)
	}
	if got[0].Descriptor.Label != "Full Name" {
		t.Fatalf("unexpected descriptor for Owner.Name: %+v", got[0].Descriptor)
	}
}

func TestResolveAllEmpty(t *testing.T) {
	r := New(newDescriber(), WithLogger(quietLogger()))
	if got := r.ResolveAll(context.Background(), "Case", nil); len(got) != 0 {
		t.Fatalf("expected no results, got %+v", got)
	}
}
