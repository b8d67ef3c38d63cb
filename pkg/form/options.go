package form

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/formatters"
	"github.com/goliatone/go-formfield/pkg/model"
	"github.com/goliatone/go-formfield/pkg/validators"
)

// DefaultErrorDisplayDelay is how long a field stays "changing" after an edit
// unless the form or field overrides it.
const DefaultErrorDisplayDelay = 500 * time.Millisecond

// Option configures a Form.
type Option func(*Form)

// WithErrorDisplayDelay sets the form-wide display delay.
func WithErrorDisplayDelay(delay time.Duration) Option {
	return func(f *Form) {
		if delay >= 0 {
			f.errorDisplayDelay = delay
		}
	}
}

// WithValidateOnChange toggles re-validation after every value change.
func WithValidateOnChange(enabled bool) Option {
	return func(f *Form) {
		f.validateOnChange = enabled
	}
}

// WithLogger attaches a logger. Fields built by the form inherit it.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithDefaults seeds the form data. Keys may be dotted paths or nested maps;
// values found here win over field definition defaults when building.
func WithDefaults(values map[string]any) Option {
	return func(f *Form) {
		if len(values) == 0 {
			return
		}
		if f.defaults == nil {
			f.defaults = make(map[string]any, len(values))
		}
		for k, v := range values {
			f.defaults[k] = v
		}
	}
}

// WithValidatorRegistry overrides the registry used to resolve validation
// rules when building from a definition.
func WithValidatorRegistry(reg *validators.Registry) Option {
	return func(f *Form) {
		if reg != nil {
			f.validators = reg
		}
	}
}

// WithFormatterRegistry overrides the registry used to resolve formatter
// names when building from a definition.
func WithFormatterRegistry(reg *formatters.Registry) Option {
	return func(f *Form) {
		if reg != nil {
			f.formatters = reg
		}
	}
}

// WithDecorators registers definition decorators applied by Build before any
// field is created.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(f *Form) {
		for _, d := range decorators {
			if d != nil {
				f.decorators = append(f.decorators, d)
			}
		}
	}
}

// WithFieldConfig lets callers adjust the generated config of a field, for
// example to attach an async validator that cannot be expressed in a
// definition file.
func WithFieldConfig(path string, fn func(*field.Config)) Option {
	return func(f *Form) {
		if fn == nil {
			return
		}
		if f.overrides == nil {
			f.overrides = make(map[string][]func(*field.Config))
		}
		f.overrides[path] = append(f.overrides[path], fn)
	}
}
