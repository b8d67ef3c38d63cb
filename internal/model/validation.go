package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	errFormIDMissing    = errors.New("model: form id is required")
	errFieldNameMissing = errors.New("model: field name is required")
	errRuleKindMissing  = errors.New("model: validation kind is required")
)

// Validate checks a form definition for structural problems before fields are
// built from it: missing identifiers, duplicate paths, empty rule kinds and
// unparsable display delays.
func Validate(form FormModel) error {
	if strings.TrimSpace(form.ID) == "" {
		return errFormIDMissing
	}
	seen := make(map[string]struct{}, len(form.Fields))
	for idx, field := range form.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w (field #%d)", errFieldNameMissing, idx)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("model: duplicate field %q", name)
		}
		seen[name] = struct{}{}
		if err := validateField(field); err != nil {
			return fmt.Errorf("model: field %q: %w", name, err)
		}
	}
	return nil
}

func validateField(field Field) error {
	for _, rule := range field.Validations {
		if strings.TrimSpace(rule.Kind) == "" {
			return errRuleKindMissing
		}
		switch rule.Type {
		case "", "field", "async", "array-item":
		default:
			return fmt.Errorf("unknown validation type %q", rule.Type)
		}
	}
	if field.ErrorDisplayDelay != "" {
		if _, err := ParseDelay(field.ErrorDisplayDelay); err != nil {
			return err
		}
	}
	return nil
}

// ParseDelay parses a display delay expressed either as a Go duration
// ("300ms") or as a bare number of milliseconds ("300").
func ParseDelay(raw string) (time.Duration, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(trimmed); err == nil {
		return d, nil
	}
	if d, err := time.ParseDuration(trimmed + "ms"); err == nil {
		return d, nil
	}
	return 0, fmt.Errorf("invalid error display delay %q", raw)
}
