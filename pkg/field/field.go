package field

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/model"
)

// Field tracks the value, validation errors and interaction flags of a single
// form input. All methods are safe for concurrent use.
type Field struct {
	path   string
	cfg    Config
	form   Coordinator
	logger *zap.Logger

	mu         sync.Mutex
	value      any
	errors     []ValidationError
	pristine   bool
	validated  bool
	validating bool
	updating   bool
	generation uint64
	changeSeq  uint64
	timer      *time.Timer
}

// ChangeEvent is an input-change notification from a front end. Checked wins
// over Value when set (checkboxes, toggles).
type ChangeEvent struct {
	Value   string
	Checked *bool
}

// State is a point-in-time snapshot of a field.
type State struct {
	Path            string            `json:"path"`
	Label           string            `json:"label,omitempty"`
	HelpText        string            `json:"helpText,omitempty"`
	Type            model.FieldType   `json:"type,omitempty"`
	Value           any               `json:"value"`
	Errors          []ValidationError `json:"errors,omitempty"`
	IsPristine      bool              `json:"isPristine"`
	IsValidated     bool              `json:"isValidated"`
	IsValidating    bool              `json:"isValidating"`
	IsChangingValue bool              `json:"isChangingValue"`
	IsValid         bool              `json:"isValid"`
}

// Result is the outcome of one validation run.
type Result struct {
	IsValid bool
	Errors  []ValidationError
}

// New creates a field at path, seeds its value from the config default,
// writes the serialized default into the form data and registers the field
// with the coordinator.
func New(path string, cfg Config, form Coordinator, opts ...Option) (*Field, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrPathRequired
	}
	if form == nil {
		return nil, ErrCoordinatorRequired
	}

	f := &Field{
		path:     path,
		cfg:      cfg,
		form:     form,
		logger:   zap.NewNop(),
		pristine: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	f.value = cfg.initialValue()
	form.UpdateFormDataAt(path, cfg.serialize(f.value))
	form.AddField(f)
	return f, nil
}

// Path returns the dotted path the field writes to.
func (f *Field) Path() string {
	return f.path
}

// Config returns the field configuration.
func (f *Field) Config() Config {
	return f.cfg
}

// Value returns the current (formatted, unserialized) value.
func (f *Field) Value() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// SerializedValue returns the value as written to the form data.
func (f *Field) SerializedValue() any {
	return f.cfg.serialize(f.Value())
}

// Errors returns a copy of the visible errors.
func (f *Field) Errors() []ValidationError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneErrors(f.errors)
}

// IsPristine reports whether the value has never been changed.
func (f *Field) IsPristine() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pristine
}

// IsValidating reports whether the latest validation run is still in flight.
func (f *Field) IsValidating() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validating
}

// IsChangingValue reports whether the field is inside the display delay that
// follows a change.
func (f *Field) IsChangingValue() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updating
}

// IsValid reports whether the field currently has no visible errors.
func (f *Field) IsValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errors) == 0
}

// State returns a snapshot of the field.
func (f *Field) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Path:            f.path,
		Label:           f.cfg.Label,
		HelpText:        f.cfg.HelpText,
		Type:            f.cfg.Type,
		Value:           f.value,
		Errors:          cloneErrors(f.errors),
		IsPristine:      f.pristine,
		IsValidated:     f.validated,
		IsValidating:    f.validating,
		IsChangingValue: f.updating,
		IsValid:         len(f.errors) == 0,
	}
}

// SetValue formats and stores a new value, pushes its serialized form to the
// coordinator and, when the coordinator validates on change, re-validates the
// configured fields. Whitespace-only strings bypass the formatters.
func (f *Field) SetValue(ctx context.Context, value any) {
	opts := f.form.Options()
	delay := f.cfg.ErrorDisplayDelay
	if delay <= 0 {
		delay = opts.ErrorDisplayDelay
	}
	formatted := f.format(value)

	f.mu.Lock()
	f.pristine = false
	f.updating = true
	f.changeSeq++
	seq := f.changeSeq
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(delay, func() { f.endChange(seq) })
	f.value = formatted
	f.mu.Unlock()

	f.form.UpdateFormDataAt(f.path, f.cfg.serialize(formatted))

	if opts.ValidateOnChange {
		f.form.ValidateFields(ctx, f.pathsToValidate())
	}
}

// OnChange adapts a front-end change notification into SetValue.
func (f *Field) OnChange(ctx context.Context, event ChangeEvent) {
	if event.Checked != nil {
		f.SetValue(ctx, *event.Checked)
		return
	}
	f.SetValue(ctx, event.Value)
}

// ClearErrors removes the visible errors of the given types, ValidationTypeField
// when none are given.
func (f *Field) ClearErrors(types ...ValidationType) {
	if len(types) == 0 {
		types = []ValidationType{ValidationTypeField}
	}
	f.mu.Lock()
	f.errors = filterErrors(f.errors, types...)
	f.mu.Unlock()
}

// SetErrors replaces the visible errors, typically with server-side messages.
func (f *Field) SetErrors(errs []ValidationError) {
	f.mu.Lock()
	f.errors = cloneErrors(errs)
	f.mu.Unlock()
}

// ErrorMessages joins the messages of the visible errors of type t (default
// ValidationTypeField). Errors without a type count as field errors. The
// boolean is false when no error matches.
func (f *Field) ErrorMessages(t ValidationType) (string, bool) {
	if t == "" {
		t = ValidationTypeField
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var messages []string
	for _, e := range f.errors {
		if e.typeOrDefault() == t {
			messages = append(messages, e.Message)
		}
	}
	if len(messages) == 0 {
		return "", false
	}
	return strings.Join(messages, ", "), true
}

// Unmount stops the pending display timer and deregisters the field.
func (f *Field) Unmount() {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.updating = false
	f.mu.Unlock()

	f.form.RemoveField(f.path)
}

func (f *Field) endChange(seq uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq == f.changeSeq {
		f.updating = false
	}
}

func (f *Field) format(value any) any {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return value
	}
	for _, formatter := range f.cfg.Formatters {
		if formatter != nil {
			value = formatter(value)
		}
	}
	return value
}

func (f *Field) pathsToValidate() []string {
	if f.cfg.FieldsToValidateOnChange == nil {
		return []string{f.path}
	}
	return append([]string(nil), f.cfg.FieldsToValidateOnChange...)
}

func filterErrors(errs []ValidationError, types ...ValidationType) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, e := range errs {
		if !hasType(types, e.typeOrDefault()) {
			out = append(out, e)
		}
	}
	return out
}

func hasType(types []ValidationType, t ValidationType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func cloneErrors(errs []ValidationError) []ValidationError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]ValidationError, len(errs))
	for i, e := range errs {
		out[i] = e.clone()
	}
	return out
}
