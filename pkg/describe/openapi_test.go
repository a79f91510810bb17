package describe

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

const opportunityDocument = `
openapi: 3.0.3
info:
  title: CRM
  version: 1.0.0
paths: {}
components:
  schemas:
    Opportunity:
      title: Opportunity
      type: object
      properties:
        Name:
          type: string
          title: Opportunity Name
          maxLength: 120
        Amount:
          type: number
        CloseDate:
          type: string
          format: date
        StageName:
          type: string
          enum: [Prospecting, Closed Won]
        IsPrivate:
          type: boolean
        Id:
          type: string
          readOnly: true
          x-field-type: id
        AccountId:
          type: string
          x-reference-to: Account
        Description:
          type: string
          x-html-formatted: true
`

func TestOpenAPIDescribesComponentSchemas(t *testing.T) {
	source, err := NewOpenAPI(context.Background(), []byte(opportunityDocument))
	if err != nil {
		t.Fatalf("new openapi describer: %v", err)
	}

	describe, err := source.DescribeObject(context.Background(), "Opportunity")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}

	want := []metadata.FieldDescriptor{
		{Name: "AccountId", Label: "AccountId", Type: metadata.FieldTypeReference, Updateable: true, ReferenceTo: []string{"Account"}, RelationshipName: "Account"},
		{Name: "Amount", Label: "Amount", Type: metadata.FieldTypeDouble, Updateable: true},
		{Name: "CloseDate", Label: "CloseDate", Type: metadata.FieldTypeDate, Updateable: true},
		{Name: "Description", Label: "Description", Type: metadata.FieldTypeString, Updateable: true, HTMLFormatted: true},
		{Name: "Id", Label: "Id", Type: metadata.FieldTypeID},
		{Name: "IsPrivate", Label: "IsPrivate", Type: metadata.FieldTypeBoolean, Updateable: true},
		{Name: "Name", Label: "Opportunity Name", Type: metadata.FieldTypeString, Length: 120, Updateable: true},
		{Name: "StageName", Label: "StageName", Type: metadata.FieldTypePicklist, Updateable: true, PicklistValues: []metadata.PicklistValue{
			{Value: "Prospecting", Label: "Prospecting"},
			{Value: "Closed Won", Label: "Closed Won"},
		}},
	}
	if diff := cmp.Diff(want, describe.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if describe.Label != "Opportunity" {
		t.Fatalf("unexpected label %q", describe.Label)
	}

	if _, err := source.DescribeObject(context.Background(), "Lead"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestOpenAPIWithoutComponents(t *testing.T) {
	source, err := NewOpenAPI(context.Background(), []byte("openapi: 3.0.3\ninfo: {title: t, version: '1'}\npaths: {}\n"))
	if err != nil {
		t.Fatalf("new openapi describer: %v", err)
	}
	if _, err := source.DescribeObject(context.Background(), "Anything"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}
