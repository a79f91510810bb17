package describe

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

const accountYAML = `
objects:
  - name: Account
    label: Account
    fields:
      - name: Name
        label: Account Name
        type: string
        length: 255
        updateable: true
      - name: OwnerId
        label: Owner
        type: reference
        referenceTo: [User]
        relationshipName: Owner
layouts:
  - object: Account
    mode: view
    sections:
      - heading: Information
        columns: 2
        rows:
          - items:
              - label: Account Name
                components:
                  - type: Field
                    value: Name
              - placeholder: true
          - items:
              - label: Owner
                components:
                  - type: Field
                    value: OwnerId
                  - type: Separator
                    value: " / "
                  - type: Field
                    value: Hidden__c
`

const userJSON = `{
  "objects": [
    {"name": "User", "fields": [{"name": "Name", "type": "string", "label": "Full Name"}]}
  ],
  "records": {"ignored": true}
}`

func loadTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := LoadFS(fstest.MapFS{
		"metadata/account.yaml": {Data: []byte(accountYAML)},
		"metadata/user.json":    {Data: []byte(userJSON)},
		"metadata/README.md":    {Data: []byte("not a fixture")},
	})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return store
}

func TestLoadFSParsesObjectsFromYAMLAndJSON(t *testing.T) {
	store := loadTestStore(t)

	if diff := cmp.Diff([]string{"Account", "User"}, store.Objects()); diff != "" {
		t.Fatalf("objects mismatch (-want +got):\n%s", diff)
	}

	user, err := store.DescribeObject(context.Background(), "User")
	if err != nil {
		t.Fatalf("describe user: %v", err)
	}
	if len(user.Fields) != 1 || user.Fields[0].Label != "Full Name" {
		t.Fatalf("unexpected user describe: %+v", user)
	}

	_, err = store.DescribeObject(context.Background(), "Contact")
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestFetchLayoutSectionsCompletesDetails(t *testing.T) {
	store := loadTestStore(t)

	sections, err := store.FetchLayoutSections(context.Background(), "Account", "0125g000000AbCdAAK", metadata.ModeView)
	if err != nil {
		t.Fatalf("fetch layout: %v", err)
	}
	if len(sections) != 1 || len(sections[0].Rows) != 2 {
		t.Fatalf("unexpected sections: %+v", sections)
	}

	first := sections[0].Rows[0].Items
	if !first[1].Placeholder {
		t.Fatalf("expected second item to be a placeholder")
	}
	name, ok := first[0].Components[0].(metadata.FieldComponent)
	if !ok || name.Descriptor == nil || name.Descriptor.Label != "Account Name" {
		t.Fatalf("expected Name details from describe, got %+v", first[0].Components[0])
	}

	owner := sections[0].Rows[1].Items[0].Components
	if sep, ok := owner[1].(metadata.SeparatorComponent); !ok || sep.Value != " / " {
		t.Fatalf("expected separator component, got %+v", owner[1])
	}
	hidden, ok := owner[2].(metadata.FieldComponent)
	if !ok || hidden.Descriptor != nil {
		t.Fatalf("expected unknown field to keep nil descriptor, got %+v", owner[2])
	}
}

func TestFetchLayoutSectionsDoesNotMutateStore(t *testing.T) {
	store := loadTestStore(t)
	ctx := context.Background()

	if _, err := store.FetchLayoutSections(ctx, "Account", "", metadata.ModeView); err != nil {
		t.Fatalf("fetch layout: %v", err)
	}
	raw := store.layouts[layoutKey{object: "Account", mode: metadata.ModeView}]
	field := raw[0].Rows[0].Items[0].Components[0].(metadata.FieldComponent)
	if field.Descriptor != nil {
		t.Fatalf("stored layout must keep its original components")
	}
}

func TestFetchLayoutSectionsMissingMode(t *testing.T) {
	store := loadTestStore(t)

	_, err := store.FetchLayoutSections(context.Background(), "Account", "", metadata.ModeEdit)
	if !errors.Is(err, ErrLayoutNotFound) {
		t.Fatalf("expected ErrLayoutNotFound, got %v", err)
	}
}

func TestLoadFSRejectsInvalidFixtures(t *testing.T) {
	cases := map[string]string{
		"duplicate object": "objects:\n  - name: A\n  - name: A\n",
		"unnamed object":   "objects:\n  - label: nope\n",
		"unknown mode":     "layouts:\n  - object: A\n    mode: print\n",
		"unknown component": `layouts:
  - object: A
    sections:
      - rows:
          - items:
              - components:
                  - type: Canvas
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFS(fstest.MapFS{"bad.yaml": {Data: []byte(content)}})
			if err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadFSNil(t *testing.T) {
	store, err := LoadFS(nil)
	if err != nil {
		t.Fatalf("load nil fs: %v", err)
	}
	if len(store.Objects()) != 0 {
		t.Fatalf("expected empty store")
	}
}

func TestLoadFSMergesFilesystems(t *testing.T) {
	store, err := LoadFS(
		fstest.MapFS{"account.yaml": {Data: []byte(accountYAML)}},
		nil,
		fstest.MapFS{"user.json": {Data: []byte(userJSON)}},
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"Account", "User"}, store.Objects()); diff != "" {
		t.Fatalf("objects mismatch (-want +got):\n%s", diff)
	}

	_, err = LoadFS(
		fstest.MapFS{"a.yaml": {Data: []byte(accountYAML)}},
		fstest.MapFS{"b.yaml": {Data: []byte(accountYAML)}},
	)
	if err == nil {
		t.Fatalf("expected duplicate object across filesystems to fail")
	}
}
