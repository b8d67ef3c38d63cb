package field_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfield/pkg/field"
)

func TestNew_RequiresPathAndCoordinator(t *testing.T) {
	if _, err := field.New("  ", field.Config{}, newFakeForm()); !errors.Is(err, field.ErrPathRequired) {
		t.Fatalf("expected ErrPathRequired, got %v", err)
	}
	if _, err := field.New("name", field.Config{}, nil); !errors.Is(err, field.ErrCoordinatorRequired) {
		t.Fatalf("expected ErrCoordinatorRequired, got %v", err)
	}
}

func TestNew_SeedsDefaultAndRegisters(t *testing.T) {
	form := newFakeForm()
	f := mustField(t, form, "age", field.Config{
		DefaultValue:     "ignored",
		DefaultValueFunc: func() any { return "42" },
		Deserializer: func(v any) any {
			return "n:" + v.(string)
		},
		Serializer: func(v any) any {
			return strings.TrimPrefix(v.(string), "n:")
		},
	})

	if got := f.Value(); got != "n:42" {
		t.Fatalf("expected deserialized default, got %v", got)
	}
	if got := form.value("age"); got != "42" {
		t.Fatalf("expected serialized default in form data, got %v", got)
	}
	if got := f.SerializedValue(); got != "42" {
		t.Fatalf("expected serialized value 42, got %v", got)
	}
	if form.fields["age"] != f {
		t.Fatalf("expected field to be registered")
	}
}

func TestPristine_FlipsOnceOnFirstChange(t *testing.T) {
	f := mustField(t, newFakeForm(), "name", field.Config{})
	if !f.IsPristine() {
		t.Fatalf("expected new field to be pristine")
	}

	f.SetValue(context.Background(), "a")
	if f.IsPristine() {
		t.Fatalf("expected field to be dirty after first change")
	}

	f.SetValue(context.Background(), "b")
	f.SetValue(context.Background(), "")
	if f.IsPristine() {
		t.Fatalf("pristine must never revert")
	}
}

func TestSetValue_AppliesFormattersInOrder(t *testing.T) {
	form := newFakeForm()
	f := mustField(t, form, "title", field.Config{
		DefaultValue: "",
		Formatters: []field.Formatter{
			func(v any) any { return strings.TrimSpace(v.(string)) },
			func(v any) any { return strings.ToUpper(v.(string)) },
			func(v any) any { return v.(string) + "!" },
		},
		Serializer: func(v any) any { return "<" + v.(string) + ">" },
	})

	f.SetValue(context.Background(), "  hello ")

	if got := f.Value(); got != "HELLO!" {
		t.Fatalf("expected formatted value, got %q", got)
	}
	if got := form.value("title"); got != "<HELLO!>" {
		t.Fatalf("expected serialized value in form data, got %v", got)
	}
}

func TestNew_WritesSerializedDefault(t *testing.T) {
	form := newFakeForm()
	serialized := 0
	mustField(t, form, "title", field.Config{
		Serializer: func(v any) any {
			serialized++
			if v == nil {
				return "<nil>"
			}
			return "<" + v.(string) + ">"
		},
	})
	mustField(t, form, "slug", field.Config{DefaultValue: "intro", Serializer: func(v any) any { return "<" + v.(string) + ">" }})

	if serialized != 1 {
		t.Fatalf("expected serializer to run once on mount, ran %d times", serialized)
	}
	if got := form.value("title"); got != "<nil>" {
		t.Fatalf("expected serialized nil default, got %v", got)
	}
	if got := form.value("slug"); got != "<intro>" {
		t.Fatalf("expected serialized default, got %v", got)
	}
}

func TestSetValue_WhitespaceSkipsFormatters(t *testing.T) {
	called := 0
	f := mustField(t, newFakeForm(), "title", field.Config{
		Formatters: []field.Formatter{
			func(v any) any {
				called++
				return "formatted"
			},
		},
	})

	for _, input := range []string{"   ", "", "\t\n"} {
		f.SetValue(context.Background(), input)
		if got := f.Value(); got != input {
			t.Fatalf("expected literal %q to be kept, got %q", input, got)
		}
	}
	if called != 0 {
		t.Fatalf("expected formatters to be skipped, called %d times", called)
	}

	f.SetValue(context.Background(), 7)
	if got := f.Value(); got != "formatted" {
		t.Fatalf("expected non-string values to be formatted, got %v", got)
	}
}

func TestSetValue_ValidatesConfiguredFieldsOnChange(t *testing.T) {
	form := newFakeForm()
	form.opts.ValidateOnChange = true

	own := mustField(t, form, "password", field.Config{})
	sibling := mustField(t, form, "confirm", field.Config{
		FieldsToValidateOnChange: []string{"password", "confirm"},
	})

	own.SetValue(context.Background(), "secret")
	sibling.SetValue(context.Background(), "secret")

	want := [][]string{{"password"}, {"password", "confirm"}}
	if diff := cmp.Diff(want, form.validations()); diff != "" {
		t.Fatalf("validated paths mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValue_SkipsValidationWhenDisabled(t *testing.T) {
	form := newFakeForm()
	f := mustField(t, form, "name", field.Config{})

	f.SetValue(context.Background(), "x")
	if got := form.validations(); len(got) != 0 {
		t.Fatalf("expected no validation requests, got %v", got)
	}
}

func TestSetValue_DisplayDelayClearsChangingFlag(t *testing.T) {
	f := mustField(t, newFakeForm(), "name", field.Config{ErrorDisplayDelay: 20 * time.Millisecond})
	if f.IsChangingValue() {
		t.Fatalf("expected idle field before any change")
	}

	f.SetValue(context.Background(), "a")
	if !f.IsChangingValue() {
		t.Fatalf("expected changing flag right after a change")
	}
	f.SetValue(context.Background(), "ab")
	if !f.IsChangingValue() {
		t.Fatalf("expected changing flag after restart")
	}

	eventually(t, func() bool { return !f.IsChangingValue() })
}

func TestOnChange_PrefersChecked(t *testing.T) {
	f := mustField(t, newFakeForm(), "agree", field.Config{})

	checked := true
	f.OnChange(context.Background(), field.ChangeEvent{Value: "on", Checked: &checked})
	if got := f.Value(); got != true {
		t.Fatalf("expected checked value, got %v", got)
	}

	f.OnChange(context.Background(), field.ChangeEvent{Value: "typed"})
	if got := f.Value(); got != "typed" {
		t.Fatalf("expected text value, got %v", got)
	}
}

func TestClearErrors_OnlyRemovesAddressedType(t *testing.T) {
	f := mustField(t, newFakeForm(), "name", field.Config{})
	f.SetErrors([]field.ValidationError{
		{Message: "untyped"},
		{Message: "field", ValidationType: field.ValidationTypeField},
		{Message: "async", ValidationType: field.ValidationTypeAsync},
		{Message: "item", ValidationType: field.ValidationTypeArrayItem},
	})

	f.ClearErrors(field.ValidationTypeAsync)
	want := []field.ValidationError{
		{Message: "untyped"},
		{Message: "field", ValidationType: field.ValidationTypeField},
		{Message: "item", ValidationType: field.ValidationTypeArrayItem},
	}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	f.ClearErrors()
	want = []field.ValidationError{{Message: "item", ValidationType: field.ValidationTypeArrayItem}}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch after default clear (-want +got):\n%s", diff)
	}
}

func TestErrorMessages(t *testing.T) {
	f := mustField(t, newFakeForm(), "name", field.Config{})
	if _, ok := f.ErrorMessages(""); ok {
		t.Fatalf("expected no messages on a clean field")
	}

	f.SetErrors([]field.ValidationError{
		{Message: "too short"},
		{Message: "taken", ValidationType: field.ValidationTypeAsync},
		{Message: "bad chars", ValidationType: field.ValidationTypeField},
	})

	got, ok := f.ErrorMessages("")
	if !ok || got != "too short, bad chars" {
		t.Fatalf("unexpected field messages %q (ok=%v)", got, ok)
	}
	got, ok = f.ErrorMessages(field.ValidationTypeAsync)
	if !ok || got != "taken" {
		t.Fatalf("unexpected async messages %q (ok=%v)", got, ok)
	}
	if _, ok := f.ErrorMessages(field.ValidationTypeArrayItem); ok {
		t.Fatalf("expected no array-item messages")
	}
}

func TestUnmount_Deregisters(t *testing.T) {
	form := newFakeForm()
	f := mustField(t, form, "name", field.Config{ErrorDisplayDelay: time.Hour})
	f.SetValue(context.Background(), "x")

	f.Unmount()
	if _, ok := form.fields["name"]; ok {
		t.Fatalf("expected field to be removed from the coordinator")
	}
	if f.IsChangingValue() {
		t.Fatalf("expected changing flag to be cleared on unmount")
	}
}

func TestState_Snapshot(t *testing.T) {
	f := mustField(t, newFakeForm(), "email", field.Config{
		Label:       "Email",
		HelpText:    "Work address",
		Type:        "string",
		Validations: []field.Validation{{Validator: failWith("invalid")}},
	})
	f.SetValue(context.Background(), "x")
	f.Validate(context.Background())

	state := f.State()
	want := field.State{
		Path:            "email",
		Label:           "Email",
		HelpText:        "Work address",
		Type:            "string",
		Value:           "x",
		Errors:          []field.ValidationError{{Message: "invalid", ValidationType: field.ValidationTypeField}},
		IsPristine:      false,
		IsValidated:     true,
		IsValidating:    false,
		IsChangingValue: state.IsChangingValue,
		IsValid:         false,
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}
