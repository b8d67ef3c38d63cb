package field

import "go.uber.org/zap"

// Option configures a Field at construction time.
type Option func(*Field)

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Field) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// ValidateOption adjusts a single Validate call.
type ValidateOption func(*validateRequest)

type validateRequest struct {
	value          any
	hasValue       bool
	formData       map[string]any
	hasFormData    bool
	validationType ValidationType
}

// WithValue validates the supplied value instead of the current one.
func WithValue(value any) ValidateOption {
	return func(r *validateRequest) {
		r.value = value
		r.hasValue = true
	}
}

// WithFormData validates against the supplied snapshot instead of asking the
// coordinator for one.
func WithFormData(data map[string]any) ValidateOption {
	return func(r *validateRequest) {
		r.formData = data
		r.hasFormData = true
	}
}

// WithValidationType restricts the run to validators of the given type.
func WithValidationType(t ValidationType) ValidateOption {
	return func(r *validateRequest) {
		r.validationType = t
	}
}
