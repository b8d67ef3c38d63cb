package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfield/pkg/model"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "accounts.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return raw
}

func fieldNames(form model.FormModel) []string {
	names := make([]string, 0, len(form.Fields))
	for _, f := range form.Fields {
		names = append(names, f.Name)
	}
	return names
}

func TestParseFlattensRequestBody(t *testing.T) {
	form, err := Parse(context.Background(), loadFixture(t), "createAccount", WithMaxDepth(3))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if form.ID != "createAccount" || form.Method != "POST" || form.Endpoint != "/accounts" || form.Title != "Create an account" {
		t.Fatalf("unexpected form header: %+v", form)
	}

	wantNames := []string{
		"address.city",
		"address.zip",
		"age",
		"email",
		"handle",
		"plan",
		"referrer.name",
		"referrer.referrer.name",
		"tags",
		"website",
	}
	if diff := cmp.Diff(wantNames, fieldNames(form)); diff != "" {
		t.Fatalf("field names mismatch (-want +got):\n%s", diff)
	}

	byName := make(map[string]model.Field, len(form.Fields))
	for _, f := range form.Fields {
		byName[f.Name] = f
	}

	wantAge := model.Field{
		Name:     "age",
		Type:     model.FieldTypeInteger,
		Required: true,
		Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "18"}},
			{Kind: model.ValidationRuleMax, Params: map[string]string{"value": "130", "exclusive": "true"}},
		},
	}
	if diff := cmp.Diff(wantAge, byName["age"]); diff != "" {
		t.Fatalf("age mismatch (-want +got):\n%s", diff)
	}

	wantEmail := model.Field{
		Name:        "email",
		Type:        model.FieldTypeString,
		Format:      "email",
		Required:    true,
		Label:       "Work email",
		Validations: []model.ValidationRule{{Kind: model.ValidationRuleEmail}},
	}
	if diff := cmp.Diff(wantEmail, byName["email"]); diff != "" {
		t.Fatalf("email mismatch (-want +got):\n%s", diff)
	}

	wantHandle := []model.ValidationRule{
		{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "3"}},
		{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "20"}},
		{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": "^[a-z0-9_]+$"}},
	}
	if diff := cmp.Diff(wantHandle, byName["handle"].Validations); diff != "" {
		t.Fatalf("handle rules mismatch (-want +got):\n%s", diff)
	}

	if !byName["address.city"].Required || byName["address.zip"].Required {
		t.Fatalf("nested required flags wrong: %+v %+v", byName["address.city"], byName["address.zip"])
	}
	if byName["address.zip"].HelpText != "Postal code" {
		t.Fatalf("description should become help text")
	}

	tags := byName["tags"]
	if diff := cmp.Diff([]any{"a", "b"}, tags.Enum); diff != "" {
		t.Fatalf("tags enum mismatch (-want +got):\n%s", diff)
	}
	if len(tags.Validations) != 1 || tags.Validations[0].Kind != model.ValidationRuleMinSelectable {
		t.Fatalf("expected minSelectable rule, got %+v", tags.Validations)
	}

	if byName["plan"].Default != "free" {
		t.Fatalf("default not carried: %#v", byName["plan"].Default)
	}
	if byName["website"].Validations[0].Kind != model.ValidationRuleURL {
		t.Fatalf("uri format should map to url rule")
	}
	if _, ok := byName["id"]; ok {
		t.Fatalf("read-only properties must be skipped")
	}
}

func TestParseUnknownOperation(t *testing.T) {
	_, err := Parse(context.Background(), loadFixture(t), "deleteEverything")
	if !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
}

func TestParseRejectsEmptyAndCancelled(t *testing.T) {
	if _, err := Parse(context.Background(), nil, "x"); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Parse(ctx, loadFixture(t), "createAccount"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOperations(t *testing.T) {
	ops, err := Operations(context.Background(), loadFixture(t))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	want := []Operation{
		{ID: "createAccount", Method: "POST", Path: "/accounts", Summary: "Create an account"},
		{ID: "get:/accounts", Method: "GET", Path: "/accounts", Summary: "List accounts"},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}
