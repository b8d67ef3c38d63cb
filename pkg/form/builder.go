package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/formatters"
	"github.com/goliatone/go-formfield/pkg/model"
)

// Build constructs a form from a definition: decorators run first, the
// definition is checked, then one field is created per definition entry in
// declared order. Values supplied through WithDefaults win over definition
// defaults.
func Build(def model.FormModel, options ...Option) (*Form, error) {
	f := New(options...)

	for _, decorator := range f.decorators {
		if err := decorator.Decorate(&def); err != nil {
			return nil, fmt.Errorf("form: decorate %q: %w", def.ID, err)
		}
	}
	if err := model.Validate(def); err != nil {
		return nil, err
	}

	for _, entry := range def.Fields {
		cfg, err := f.configFor(entry)
		if err != nil {
			return nil, fmt.Errorf("form: field %q: %w", entry.Name, err)
		}
		if _, err := field.New(entry.Name, cfg, f, field.WithLogger(f.logger)); err != nil {
			return nil, fmt.Errorf("form: field %q: %w", entry.Name, err)
		}
	}
	return f, nil
}

func (f *Form) configFor(entry model.Field) (field.Config, error) {
	path := strings.TrimSpace(entry.Name)

	validations, err := f.validators.FromField(entry)
	if err != nil {
		return field.Config{}, err
	}
	chain, err := f.formatters.Resolve(entry.Formatters...)
	if err != nil {
		return field.Config{}, err
	}
	switch entry.Type {
	case model.FieldTypeInteger:
		chain = append(chain, formatters.ToInt)
	case model.FieldTypeNumber:
		chain = append(chain, formatters.ToFloat)
	}
	delay, err := model.ParseDelay(entry.ErrorDisplayDelay)
	if err != nil {
		return field.Config{}, err
	}

	label := entry.Label
	if label == "" {
		label = model.DefaultLabeler(path)
	}

	cfg := field.Config{
		DefaultValue:             entry.Default,
		Label:                    label,
		HelpText:                 entry.HelpText,
		Type:                     entry.Type,
		Validations:              validations,
		Formatters:               chain,
		FieldsToValidateOnChange: entry.FieldsToValidateOnChange,
		IsValidationAsync:        entry.AsyncValidation || hasAsyncRule(validations),
		ErrorDisplayDelay:        delay,
	}
	if value, ok := f.Value(path); ok {
		cfg.DefaultValue = value
	}
	if cfg.DefaultValue == nil {
		cfg.DefaultValue = zeroValue(entry.Type)
	}

	for _, override := range f.overrides[path] {
		override(&cfg)
	}
	return cfg, nil
}

func hasAsyncRule(validations []field.Validation) bool {
	for _, v := range validations {
		if v.Type == field.ValidationTypeAsync {
			return true
		}
	}
	return false
}

func zeroValue(t model.FieldType) any {
	switch t {
	case model.FieldTypeBoolean:
		return false
	case model.FieldTypeArray:
		return []any{}
	case model.FieldTypeString, model.FieldTypeText, "":
		return ""
	default:
		return nil
	}
}
