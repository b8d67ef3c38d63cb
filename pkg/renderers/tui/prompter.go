// Package tui collects form values interactively in a terminal. Every answer
// flows through the field state controller, so formatting, validation and
// error messages behave exactly like any other front end.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/form"
	"github.com/goliatone/go-formfield/pkg/model"
)

// Prompter asks for each field of a form in definition order and serializes
// the submitted data.
type Prompter struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
	logger            *zap.Logger
}

// New constructs a Prompter backed by the survey driver unless overridden.
func New(options ...Option) *Prompter {
	p := &Prompter{
		outputFormat: OutputFormatJSON,
		maxAttempts:  DefaultMaxAttempts,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	if p.driver == nil {
		p.driver = NewSurveyDriver(nil)
	}
	return p
}

// ContentType reports the MIME type of the serialized output.
func (p *Prompter) ContentType() string {
	switch p.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Run prompts for every field of def registered on f, re-asking a field while
// it is invalid, then submits the form. Fields declared in def but missing
// from f are skipped.
func (p *Prompter) Run(ctx context.Context, def model.FormModel, f *form.Form) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("tui: form is nil")
	}
	if def.Title != "" {
		if err := p.driver.Info(ctx, p.theme.InfoPrefix+def.Title); err != nil {
			return nil, err
		}
	}

	for _, entry := range def.Fields {
		fd, ok := f.Field(entry.Name)
		if !ok {
			p.logger.Debug("field not registered on form", zap.String("path", entry.Name))
			continue
		}
		if err := p.promptField(ctx, entry, fd); err != nil {
			return nil, err
		}
	}

	data, valid := f.Submit(ctx)
	if !valid {
		errs := f.Errors()
		paths := make([]string, 0, len(errs))
		for path := range errs {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			msg := fmt.Sprintf("%s%s: %s", p.theme.ErrorPrefix, path, strings.Join(errs[path], ", "))
			if err := p.driver.Info(ctx, msg); err != nil {
				return nil, err
			}
		}
		return nil, ErrInvalidForm
	}

	if p.submitTransformer != nil {
		transformed, err := p.submitTransformer(data)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
		data = transformed
	}
	return p.serialize(data)
}

func (p *Prompter) promptField(ctx context.Context, entry model.Field, fd *field.Field) error {
	for attempt := 1; ; attempt++ {
		if err := p.ask(ctx, entry, fd); err != nil {
			return err
		}
		result := fd.Validate(ctx)
		p.logger.Debug("field answered",
			zap.String("path", entry.Name),
			zap.Int("attempt", attempt),
			zap.Bool("valid", result.IsValid),
		)
		if result.IsValid {
			return nil
		}

		messages := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			messages = append(messages, e.Message)
		}
		if err := p.driver.Info(ctx, p.theme.ErrorPrefix+strings.Join(messages, ", ")); err != nil {
			return err
		}
		if attempt >= p.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, entry.Name)
		}
	}
}

func (p *Prompter) ask(ctx context.Context, entry model.Field, fd *field.Field) error {
	prompt := p.promptFor(entry, fd.State())
	answer, err := p.driver.Ask(ctx, prompt)
	if err != nil {
		return err
	}

	switch prompt.Kind {
	case PromptConfirm:
		fd.OnChange(ctx, field.ChangeEvent{Checked: &answer.Confirmed})
	case PromptMultiSelect:
		selected := make([]any, 0, len(answer.Indices))
		for _, idx := range answer.Indices {
			if idx >= 0 && idx < len(entry.Enum) {
				selected = append(selected, entry.Enum[idx])
			}
		}
		fd.SetValue(ctx, selected)
	case PromptSelect:
		if len(answer.Indices) == 0 || answer.Indices[0] < 0 || answer.Indices[0] >= len(entry.Enum) {
			fd.SetValue(ctx, nil)
			return nil
		}
		fd.SetValue(ctx, entry.Enum[answer.Indices[0]])
	default:
		if entry.Type == model.FieldTypeArray {
			fd.SetValue(ctx, splitList(answer.Text))
			return nil
		}
		fd.OnChange(ctx, field.ChangeEvent{Value: answer.Text})
	}
	return nil
}

// promptFor picks the widget for a field and prefills it from the field's
// current value.
func (p *Prompter) promptFor(entry model.Field, state field.State) Prompt {
	prompt := Prompt{
		Path:    entry.Name,
		Message: p.theme.PromptPrefix + displayLabel(entry, state),
		Help:    state.HelpText,
	}

	switch {
	case entry.Type == model.FieldTypeBoolean:
		prompt.Kind = PromptConfirm
		prompt.Confirmed, _ = state.Value.(bool)
	case entry.Type == model.FieldTypeArray && len(entry.Enum) > 0:
		prompt.Kind = PromptMultiSelect
		prompt.Options = stringifyEnum(entry.Enum)
		prompt.Selected = indicesOf(prompt.Options, stringifySlice(coerceAnySlice(state.Value)))
	case entry.Type == model.FieldTypeArray:
		prompt.Kind = PromptInput
		prompt.Default = strings.Join(stringifySlice(coerceAnySlice(state.Value)), ", ")
		if prompt.Help == "" {
			prompt.Help = "Comma separated values"
		}
	case len(entry.Enum) > 0:
		prompt.Kind = PromptSelect
		prompt.Options = stringifyEnum(entry.Enum)
		if idx := indexOf(prompt.Options, displayValue(state.Value)); idx >= 0 {
			prompt.Selected = []int{idx}
		}
	case entry.Type == model.FieldTypeText:
		prompt.Kind = PromptEditor
		prompt.Default = displayValue(state.Value)
	case entry.Format == "password":
		prompt.Kind = PromptPassword
	default:
		prompt.Kind = PromptInput
		prompt.Default = displayValue(state.Value)
	}
	return prompt
}

func (p *Prompter) serialize(values map[string]any) ([]byte, error) {
	switch p.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func displayLabel(entry model.Field, state field.State) string {
	if state.Label != "" {
		return state.Label
	}
	return entry.Name
}

func displayValue(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func stringifyEnum(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func stringifySlice(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, displayValue(v))
	}
	return out
}

func coerceAnySlice(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, 0, len(v))
		for _, s := range v {
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}

func splitList(raw string) []any {
	out := []any{}
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for _, val := range v {
			out.Add(prefix+"[]", displayValue(val))
		}
	default:
		out.Set(prefix, displayValue(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%s\n", prefix, displayValue(v))
		}
	}
}
