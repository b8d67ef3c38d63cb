package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfield/pkg/form"
	"github.com/goliatone/go-formfield/pkg/model"
)

type stubDriver struct {
	answers      []Answer
	prompts      []Prompt
	infoMessages []string
	err          error
}

func (s *stubDriver) Ask(_ context.Context, p Prompt) (Answer, error) {
	if s.err != nil {
		return Answer{}, s.err
	}
	s.prompts = append(s.prompts, p)
	if len(s.answers) == 0 {
		return Answer{}, errors.New("no answer scripted for " + p.Path)
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	return next, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) kinds() []PromptKind {
	out := make([]PromptKind, 0, len(s.prompts))
	for _, p := range s.prompts {
		out = append(out, p.Kind)
	}
	return out
}

func text(values ...string) []Answer {
	out := make([]Answer, 0, len(values))
	for _, v := range values {
		out = append(out, Answer{Text: v})
	}
	return out
}

func build(t *testing.T, def model.FormModel) *form.Form {
	t.Helper()
	f, err := form.Build(def, form.WithErrorDisplayDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(func() {
		for _, fd := range f.Fields() {
			fd.Unmount()
		}
	})
	return f
}

func TestRun_StringEnumBooleanArray(t *testing.T) {
	driver := &stubDriver{answers: []Answer{
		{Text: "  hello  "},
		{Indices: []int{1}},
		{Confirmed: true},
		{Indices: []int{0, 2}},
		{Text: "<b>Long</b> text"},
	}}
	def := model.FormModel{
		ID:    "post",
		Title: "New post",
		Fields: []model.Field{
			{Name: "title", Type: model.FieldTypeString, Formatters: []string{"trim"}},
			{Name: "status", Type: model.FieldTypeString, Enum: []any{"draft", "published"}},
			{Name: "meta.featured", Type: model.FieldTypeBoolean},
			{Name: "tags", Type: model.FieldTypeArray, Enum: []any{"go", "rust", "zig"}},
			{Name: "body", Type: model.FieldTypeText, Formatters: []string{"stripHTML"}},
		},
	}

	out, err := New(WithPromptDriver(driver)).Run(context.Background(), def, build(t, def))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := `{"body":"Long text","meta":{"featured":true},"status":"published","tags":["go","zig"],"title":"hello"}`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"New post"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	wantKinds := []PromptKind{PromptInput, PromptSelect, PromptConfirm, PromptMultiSelect, PromptEditor}
	if diff := cmp.Diff(wantKinds, driver.kinds()); diff != "" {
		t.Fatalf("prompt kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_RepromptsInvalidNumber(t *testing.T) {
	driver := &stubDriver{answers: text("-1", "10")}
	def := model.FormModel{
		ID: "counter",
		Fields: []model.Field{{
			Name:        "count",
			Type:        model.FieldTypeInteger,
			Required:    true,
			Validations: []model.ValidationRule{{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "0"}}},
		}},
	}

	out, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "})).Run(context.Background(), def, build(t, def))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(out) != `{"count":10}` {
		t.Fatalf("unexpected output %s", out)
	}
	want := []string{"! Must be greater than or equal to 0."}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_TooManyAttempts(t *testing.T) {
	driver := &stubDriver{answers: text("a", "b")}
	def := model.FormModel{
		ID:     "contact",
		Fields: []model.Field{{Name: "email", Validations: []model.ValidationRule{{Kind: model.ValidationRuleEmail}}}},
	}

	_, err := New(WithPromptDriver(driver), WithMaxAttempts(2)).Run(context.Background(), def, build(t, def))
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if len(driver.infoMessages) != 2 {
		t.Fatalf("expected one message per attempt, got %v", driver.infoMessages)
	}
}

func TestRun_PropagatesDriverErrors(t *testing.T) {
	driver := &stubDriver{err: ErrAborted}
	def := model.FormModel{ID: "x", Fields: []model.Field{{Name: "name"}}}

	_, err := New(WithPromptDriver(driver)).Run(context.Background(), def, build(t, def))
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRun_FormEncodedAndTransformer(t *testing.T) {
	driver := &stubDriver{answers: text("Ada", "a, b")}
	def := model.FormModel{
		ID: "person",
		Fields: []model.Field{
			{Name: "user.name"},
			{Name: "aliases", Type: model.FieldTypeArray},
		},
	}
	p := New(
		WithPromptDriver(driver),
		WithOutputFormat(OutputFormatFormURLEncoded),
		WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			values["source"] = "cli"
			return values, nil
		}),
	)
	if p.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %s", p.ContentType())
	}

	out, err := p.Run(context.Background(), def, build(t, def))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "aliases%5B%5D=a&aliases%5B%5D=b&source=cli&user.name=Ada"
	if string(out) != want {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestPrettyPrintIsSorted(t *testing.T) {
	got := prettyPrint(map[string]any{
		"b": []any{"x", nil},
		"a": map[string]any{"z": 1, "y": true},
	})
	want := strings.Join([]string{"a.y=true", "a.z=1", "b[0]=x", "b[1]=", ""}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pretty mismatch (-want +got):\n%s", diff)
	}
}

func TestPromptForPrefillsFromState(t *testing.T) {
	def := model.FormModel{
		ID: "account",
		Fields: []model.Field{
			{Name: "plan", Enum: []any{"free", "pro"}, Default: "pro"},
			{Name: "secret", Format: "password", Default: "hunter2"},
			{Name: "tags", Type: model.FieldTypeArray, Default: []any{"a", "b"}},
		},
	}
	f := build(t, def)
	p := New(WithPromptDriver(&stubDriver{}), WithTheme(Theme{PromptPrefix: "> "}))

	var got []Prompt
	for _, entry := range def.Fields {
		fd, ok := f.Field(entry.Name)
		if !ok {
			t.Fatalf("field %s not registered", entry.Name)
		}
		got = append(got, p.promptFor(entry, fd.State()))
	}

	want := []Prompt{
		{Kind: PromptSelect, Path: "plan", Message: "> Plan", Options: []string{"free", "pro"}, Selected: []int{1}},
		{Kind: PromptPassword, Path: "secret", Message: "> Secret"},
		{Kind: PromptInput, Path: "tags", Message: "> Tags", Default: "a, b", Help: "Comma separated values"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
}
