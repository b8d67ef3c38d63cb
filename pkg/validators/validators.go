package validators

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formfield/pkg/field"
)

// Error codes attached to ValidationError.Code.
const (
	CodeFieldMissing   = "ERR_FIELD_MISSING"
	CodeMinLength      = "ERR_MIN_LENGTH"
	CodeMaxLength      = "ERR_MAX_LENGTH"
	CodeGreaterThan    = "ERR_GREATER_THAN_NUMBER"
	CodeSmallerThan    = "ERR_SMALLER_THAN_NUMBER"
	CodeNotANumber     = "ERR_NOT_A_NUMBER"
	CodePattern        = "ERR_PATTERN"
	CodeFieldFormat    = "ERR_FIELD_FORMAT"
	CodeInvalidChars   = "ERR_INVALID_CHARS"
	CodeFirstChar      = "ERR_FIRST_CHAR"
	CodeMinSelection   = "ERR_MIN_SELECTION"
	CodeNotInEnum      = "ERR_NOT_IN_ENUM"
	FormatTypeEmail    = "EMAIL"
	FormatTypeURL      = "URL"
	defaultRequiredMsg = "Field is required"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required fails on nil, all-whitespace strings and empty slices or maps.
func Required(message string) field.Validator {
	if message == "" {
		message = defaultRequiredMsg
	}
	return func(_ context.Context, args field.ValidatorArgs) error {
		if isEmpty(args.Value) {
			return &field.ValidationError{Code: CodeFieldMissing, Message: message}
		}
		return nil
	}
}

// MinLength fails when a string has fewer runes, or a list fewer items, than
// length.
func MinLength(length int, message string) field.Validator {
	return func(_ context.Context, args field.ValidatorArgs) error {
		if isEmpty(args.Value) {
			return nil
		}
		n, ok := lengthOf(args.Value)
		if !ok || n >= length {
			return nil
		}
		return &field.ValidationError{
			Code:    CodeMinLength,
			Message: orDefault(message, "Length must be at least %d.", length),
			Meta:    map[string]any{"length": length},
		}
	}
}

// MaxLength fails when a string has more runes, or a list more items, than
// length.
func MaxLength(length int, message string) field.Validator {
	return func(_ context.Context, args field.ValidatorArgs) error {
		if isEmpty(args.Value) {
			return nil
		}
		n, ok := lengthOf(args.Value)
		if !ok || n <= length {
			return nil
		}
		return &field.ValidationError{
			Code:    CodeMaxLength,
			Message: orDefault(message, "Length must be %d or less.", length),
			Meta:    map[string]any{"length": length},
		}
	}
}

// Min fails when a number (or numeric string) is below bound, or equal to it
// when exclusive.
func Min(bound float64, exclusive bool, message string) field.Validator {
	return func(_ context.Context, args field.ValidatorArgs) error {
		if isEmpty(args.Value) {
			return nil
		}
		n, ok := toNumber(args.Value)
		if !ok {
			return notANumber()
		}
		if n > bound || (!exclusive && n == bound) {
			return nil
		}
		format := "Must be greater than or equal to %v."
		if exclusive {
			format = "Must be greater than %v."
		}
		return &field.ValidationError{
			Code:    CodeGreaterThan,
			Message: orDefault(message, format, bound),
			Meta:    map[string]any{"than": bound, "exclusive": exclusive},
		}
	}
}

// Max fails when a number (or numeric string) is above bound, or equal to it
// when exclusive.
func Max(bound float64, exclusive bool, message string) field.Validator {
	return func(_ context.Context, args field.ValidatorArgs) error {
		if isEmpty(args.Value) {
			return nil
		}
		n, ok := toNumber(args.Value)
		if !ok {
			return notANumber()
		}
		if n < bound || (!exclusive && n == bound) {
			return nil
		}
		format := "Must be less than or equal to %v."
		if exclusive {
			format = "Must be less than %v."
		}
		return &field.ValidationError{
			Code:    CodeSmallerThan,
			Message: orDefault(message, format, bound),
			Meta:    map[string]any{"than": bound, "exclusive": exclusive},
		}
	}
}

// Pattern fails when a string does not match re. Numbers are matched by
// their decimal form, so integer fields keep working after ToInt; any other
// kind of value fails.
func Pattern(re *regexp.Regexp, message string) field.Validator {
	return func(_ context.Context, args field.ValidatorArgs) error {
		if re == nil || isEmpty(args.Value) {
			return nil
		}
		if s, ok := patternSubject(args.Value); ok && re.MatchString(s) {
			return nil
		}
		return &field.ValidationError{
			Code:    CodePattern,
			Message: orDefault(message, "Does not match the required pattern."),
			Meta:    map[string]any{"pattern": re.String()},
		}
	}
}

// Email fails when a string is not shaped like an email address.
func Email(message string) field.Validator {
	return func(_ context.Context, args field.ValidatorArgs) error {
		if isEmpty(args.Value) {
			return nil
		}
		s, _ := args.Value.(string)
		if emailPattern.MatchString(strings.TrimSpace(s)) {
			return nil
		}
		return &field.ValidationError{
			Code:    CodeFieldFormat,
			Message: orDefault(message, "Must be a valid email address."),
			Meta:    map[string]any{"formatType": FormatTypeEmail},
		}
	}
}

// URL fails when a string is not an absolute http(s) URL.
func URL(message string) field.Validator {
	return func(_ context.Context, args field.ValidatorArgs) error {
		if isEmpty(args.Value) {
			return nil
		}
		s, _ := args.Value.(string)
		if u, err := url.ParseRequestURI(strings.TrimSpace(s)); err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https") {
			return nil
		}
		return &field.ValidationError{
			Code:    CodeFieldFormat,
			Message: orDefault(message, "Must be a valid URL."),
			Meta:    map[string]any{"formatType": FormatTypeURL},
		}
	}
}

// ContainsChars fails when a string contains any of chars. The offending
// characters are reported in Meta["charsFound"].
func ContainsChars(chars []string, message string) field.Validator {
	return func(_ context.Context, args field.ValidatorArgs) error {
		s, ok := args.Value.(string)
		if !ok || s == "" {
			return nil
		}
		var found []string
		for _, c := range chars {
			if c != "" && strings.Contains(s, c) {
				found = append(found, c)
			}
		}
		if len(found) == 0 {
			return nil
		}
		return &field.ValidationError{
			Code:    CodeInvalidChars,
			Message: orDefault(message, "Contains invalid characters: %s", strings.Join(found, " ")),
			Meta:    map[string]any{"charsFound": found},
		}
	}
}

// StartsWith fails when a string starts with prefix.
func StartsWith(prefix, message string) field.Validator {
	return func(_ context.Context, args field.ValidatorArgs) error {
		s, ok := args.Value.(string)
		if !ok || prefix == "" || !strings.HasPrefix(s, prefix) {
			return nil
		}
		return &field.ValidationError{
			Code:    CodeFirstChar,
			Message: orDefault(message, "Cannot start with %q.", prefix),
			Meta:    map[string]any{"char": prefix},
		}
	}
}

// MinSelectable fails when fewer than total items are selected.
func MinSelectable(total int, message string) field.Validator {
	return func(_ context.Context, args field.ValidatorArgs) error {
		n, ok := lengthOf(args.Value)
		if !ok {
			n = 0
		}
		if _, isString := args.Value.(string); isString {
			n = 0
		}
		if n >= total {
			return nil
		}
		return &field.ValidationError{
			Code:    CodeMinSelection,
			Message: orDefault(message, "Select at least %d item(s).", total),
			Meta:    map[string]any{"total": total},
		}
	}
}

// OneOf fails when the value, or any element of a list value, is not among
// allowed. Values compare by their string form so definitions decoded from
// JSON or YAML match typed input.
func OneOf(allowed []any, message string) field.Validator {
	keys := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		keys[fmt.Sprint(v)] = struct{}{}
	}
	contains := func(v any) bool {
		_, ok := keys[fmt.Sprint(v)]
		return ok
	}
	return func(_ context.Context, args field.ValidatorArgs) error {
		if len(keys) == 0 || isEmpty(args.Value) {
			return nil
		}
		if rv := reflect.ValueOf(args.Value); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			valid := true
			for i := 0; i < rv.Len(); i++ {
				if !contains(rv.Index(i).Interface()) {
					valid = false
					break
				}
			}
			if valid {
				return nil
			}
		} else if contains(args.Value) {
			return nil
		}
		return &field.ValidationError{
			Code:    CodeNotInEnum,
			Message: orDefault(message, "Must be one of the allowed values."),
			Meta:    map[string]any{"allowed": allowed},
		}
	}
}

func patternSubject(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case int, int32, int64, uint, uint64:
		return fmt.Sprint(v), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

func notANumber() error {
	return &field.ValidationError{Code: CodeNotANumber, Message: "Must be a number."}
}

func orDefault(message, format string, args ...any) string {
	if message != "" {
		return message
	}
	return fmt.Sprintf(format, args...)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func lengthOf(value any) (int, bool) {
	if s, ok := value.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}
