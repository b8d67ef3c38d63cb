package field

import (
	"context"
	"time"

	"github.com/goliatone/go-formfield/pkg/model"
)

// ValidatorArgs is the input handed to every validator.
type ValidatorArgs struct {
	Value any
	// Errors holds the failures accumulated earlier in the same run.
	Errors   []ValidationError
	FormData map[string]any
	Path     string
}

// Validator checks a value. Returning nil passes; returning a *ValidationError
// (or an error wrapping one) fails with that payload; any other error fails
// with its text as the message. Panics are recovered and treated as failures.
type Validator func(ctx context.Context, args ValidatorArgs) error

// Validation pairs a validator with how its failures are reported.
type Validation struct {
	Validator Validator
	// Type defaults to ValidationTypeField.
	Type ValidationType
	// ContinueOnFail keeps running the remaining validators after this one
	// fails. The default stops the run at the first failure.
	ContinueOnFail bool
	Message        Message
}

func (v Validation) typeOrDefault() ValidationType {
	if v.Type == "" {
		return ValidationTypeField
	}
	return v.Type
}

// Formatter transforms raw input before it becomes the field value.
type Formatter func(value any) any

// Serializer converts the field value into the representation stored in the
// form data.
type Serializer func(value any) any

// Deserializer converts a stored default into the field value.
type Deserializer func(value any) any

// Config is the immutable configuration of a field.
type Config struct {
	// DefaultValue seeds the field. DefaultValueFunc wins when both are set.
	DefaultValue     any
	DefaultValueFunc func() any

	Label    string
	HelpText string
	Type     model.FieldType

	Validations []Validation
	Formatters  []Formatter
	// FieldsToValidateOnChange lists the paths re-validated after a change.
	// Nil means the field itself.
	FieldsToValidateOnChange []string

	IsValidationAsync bool
	// ErrorDisplayDelay overrides the coordinator default when positive.
	ErrorDisplayDelay time.Duration

	Serializer   Serializer
	Deserializer Deserializer
}

func (c Config) initialValue() any {
	value := c.DefaultValue
	if c.DefaultValueFunc != nil {
		value = c.DefaultValueFunc()
	}
	if c.Deserializer != nil {
		value = c.Deserializer(value)
	}
	return value
}

func (c Config) serialize(value any) any {
	if c.Serializer == nil {
		return value
	}
	return c.Serializer(value)
}

// DataOptions controls the shape of a form data snapshot.
type DataOptions struct {
	// Flatten returns dotted-path keys instead of nested maps.
	Flatten bool
}

// DataProvider supplies whole-form snapshots to validators.
type DataProvider interface {
	FormData(opts DataOptions) map[string]any
}

// DataSink receives a field's serialized value at its path.
type DataSink interface {
	UpdateFormDataAt(path string, value any)
}

// CoordinatorOptions are the form-wide settings a field reads.
type CoordinatorOptions struct {
	ErrorDisplayDelay time.Duration
	ValidateOnChange  bool
}

// Coordinator is the form a field belongs to. Implementations must not hold
// their own locks while calling back into a field.
type Coordinator interface {
	DataProvider
	DataSink
	ValidateFields(ctx context.Context, paths []string) bool
	AddField(f *Field)
	RemoveField(path string)
	Options() CoordinatorOptions
}
