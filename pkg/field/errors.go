package field

import (
	"errors"
	"fmt"
)

var (
	// ErrPathRequired is returned when a field is created without a path.
	ErrPathRequired = errors.New("field: path is required")
	// ErrCoordinatorRequired is returned when a field is created without a
	// coordinator to register with.
	ErrCoordinatorRequired = errors.New("field: coordinator is required")
)

// ValidationType buckets validation errors so callers can validate and clear
// them independently.
type ValidationType string

const (
	ValidationTypeField     ValidationType = "field"
	ValidationTypeAsync     ValidationType = "async"
	ValidationTypeArrayItem ValidationType = "array-item"
)

// ValidationError is the failure payload produced by a validator. Meta carries
// any extra data the validator attaches (thresholds, offending characters).
type ValidationError struct {
	Code           string         `json:"code,omitempty"`
	Message        string         `json:"message"`
	ValidationType ValidationType `json:"validationType,omitempty"`
	Meta           map[string]any `json:"meta,omitempty"`
}

// Error implements error so validators can return the payload directly.
func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e ValidationError) typeOrDefault() ValidationType {
	if e.ValidationType == "" {
		return ValidationTypeField
	}
	return e.ValidationType
}

func (e ValidationError) clone() ValidationError {
	out := e
	if len(e.Meta) > 0 {
		out.Meta = make(map[string]any, len(e.Meta))
		for k, v := range e.Meta {
			out.Meta[k] = v
		}
	}
	return out
}

// Message overrides the message attached to a failure. The zero value keeps
// the validator's own message.
type Message struct {
	text    string
	compute func(ValidationError) string
}

// Literal returns a fixed override message.
func Literal(text string) Message {
	return Message{text: text}
}

// Computed returns an override message derived from the failure.
func Computed(fn func(ValidationError) string) Message {
	return Message{compute: fn}
}

// IsZero reports whether no override is configured.
func (m Message) IsZero() bool {
	return m.text == "" && m.compute == nil
}

func (m Message) resolve(failure ValidationError) string {
	switch {
	case m.compute != nil:
		return m.compute(failure)
	case m.text != "":
		return m.text
	default:
		return failure.Message
	}
}

// normalizeFailure converts whatever a validator produced (returned error or
// recovered panic) into a ValidationError. A nil payload, including a typed
// nil *ValidationError, is not a failure.
func normalizeFailure(failure any) (ValidationError, bool) {
	switch v := failure.(type) {
	case nil:
		return ValidationError{}, false
	case *ValidationError:
		if v == nil {
			return ValidationError{}, false
		}
		return v.clone(), true
	case ValidationError:
		return v.clone(), true
	case error:
		var ve *ValidationError
		if errors.As(v, &ve) && ve != nil {
			return ve.clone(), true
		}
		return ValidationError{Message: v.Error()}, true
	default:
		return ValidationError{Message: fmt.Sprint(v)}, true
	}
}
