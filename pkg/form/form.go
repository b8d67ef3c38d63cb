package form

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/formatters"
	"github.com/goliatone/go-formfield/pkg/model"
	"github.com/goliatone/go-formfield/pkg/validators"
)

// Form coordinates a set of fields: it owns the shared form data, keeps the
// field registry and runs cross-field validation. It implements
// field.Coordinator and is safe for concurrent use.
type Form struct {
	logger            *zap.Logger
	errorDisplayDelay time.Duration
	validateOnChange  bool
	defaults          map[string]any
	validators        *validators.Registry
	formatters        *formatters.Registry
	decorators        []model.Decorator
	overrides         map[string][]func(*field.Config)

	mu     sync.RWMutex
	data   *store
	fields map[string]*field.Field
	order  []string
}

var _ field.Coordinator = (*Form)(nil)

// New constructs an empty form.
func New(options ...Option) *Form {
	f := &Form{
		logger:            zap.NewNop(),
		errorDisplayDelay: DefaultErrorDisplayDelay,
		validateOnChange:  true,
		validators:        validators.NewRegistry(),
		formatters:        formatters.NewRegistry(),
		fields:            make(map[string]*field.Field),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	f.data = newStore()
	if err := f.data.seed(f.defaults); err != nil {
		f.logger.Warn("form defaults rejected", zap.Error(err))
	}
	return f
}

// Options reports the form-wide settings fields read.
func (f *Form) Options() field.CoordinatorOptions {
	return field.CoordinatorOptions{
		ErrorDisplayDelay: f.errorDisplayDelay,
		ValidateOnChange:  f.validateOnChange,
	}
}

// FormData returns a deep copy of the form data, nested by default.
func (f *Form) FormData(opts field.DataOptions) map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if opts.Flatten {
		return f.data.flat()
	}
	return f.data.nested()
}

// Value returns the stored value at a dotted path.
func (f *Form) Value(path string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	value, ok := f.data.get(path)
	return deepCopy(value), ok
}

// UpdateFormDataAt writes a value at a dotted path.
func (f *Form) UpdateFormDataAt(path string, value any) {
	f.mu.Lock()
	err := f.data.set(path, value)
	f.mu.Unlock()
	if err != nil {
		f.logger.Warn("form data write rejected", zap.String("path", path), zap.Error(err))
	}
}

// AddField registers a field. A field registered again under the same path
// replaces the previous one and keeps its position.
func (f *Form) AddField(fd *field.Field) {
	if fd == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path := fd.Path()
	if _, exists := f.fields[path]; !exists {
		f.order = append(f.order, path)
	}
	f.fields[path] = fd
	f.logger.Debug("field registered", zap.String("path", path))
}

// RemoveField deregisters the field at path and drops its value.
func (f *Form) RemoveField(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.fields[path]; !exists {
		return
	}
	delete(f.fields, path)
	for i, candidate := range f.order {
		if candidate == path {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	f.data.remove(path)
	f.logger.Debug("field removed", zap.String("path", path))
}

// Field returns the field registered at path.
func (f *Form) Field(path string) (*field.Field, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fd, ok := f.fields[path]
	return fd, ok
}

// Fields returns the registered fields in registration order.
func (f *Form) Fields() []*field.Field {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*field.Field, 0, len(f.order))
	for _, path := range f.order {
		out = append(out, f.fields[path])
	}
	return out
}

// ValidateFields validates the registered fields among paths, in the given
// order, and reports whether all of them passed. Unknown paths are skipped.
func (f *Form) ValidateFields(ctx context.Context, paths []string) bool {
	f.mu.RLock()
	targets := make([]*field.Field, 0, len(paths))
	for _, path := range paths {
		fd, ok := f.fields[path]
		if !ok {
			f.logger.Debug("skipping validation of unknown field", zap.String("path", path))
			continue
		}
		targets = append(targets, fd)
	}
	f.mu.RUnlock()

	return f.validate(ctx, targets)
}

// Validate validates every registered field.
func (f *Form) Validate(ctx context.Context) bool {
	return f.validate(ctx, f.Fields())
}

// Submit validates the whole form and returns the nested form data together
// with the overall outcome.
func (f *Form) Submit(ctx context.Context) (map[string]any, bool) {
	fields := f.Fields()
	valid := f.validate(ctx, fields)
	data := f.FormData(field.DataOptions{})
	f.logger.Debug("form submitted", zap.Bool("valid", valid), zap.Int("fields", len(fields)))
	return data, valid
}

// Errors returns the visible error messages of every invalid field keyed by
// path.
func (f *Form) Errors() map[string][]string {
	out := make(map[string][]string)
	for _, fd := range f.Fields() {
		errs := fd.Errors()
		if len(errs) == 0 {
			continue
		}
		messages := make([]string, 0, len(errs))
		for _, e := range errs {
			messages = append(messages, e.Message)
		}
		out[fd.Path()] = messages
	}
	return out
}

// IsValid reports whether no registered field has visible errors.
func (f *Form) IsValid() bool {
	for _, fd := range f.Fields() {
		if !fd.IsValid() {
			return false
		}
	}
	return true
}

func (f *Form) validate(ctx context.Context, targets []*field.Field) bool {
	valid := true
	for _, fd := range targets {
		if result := fd.Validate(ctx); !result.IsValid {
			valid = false
		}
	}
	return valid
}
