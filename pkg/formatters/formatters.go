// Package formatters provides input formatters for fields and a registry that
// resolves them by name from form definitions.
//
// Every formatter passes values it does not understand through unchanged.
package formatters

import (
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Trim removes surrounding whitespace from strings.
func Trim(value any) any {
	return mapString(value, strings.TrimSpace)
}

// Lowercase lowercases strings.
func Lowercase(value any) any {
	return mapString(value, strings.ToLower)
}

// Uppercase uppercases strings.
func Uppercase(value any) any {
	return mapString(value, strings.ToUpper)
}

// CollapseSpaces trims a string and folds inner whitespace runs into single
// spaces.
func CollapseSpaces(value any) any {
	return mapString(value, func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	})
}

// ToInt parses integer strings. Input that does not parse is kept so that a
// validator can report it.
func ToInt(value any) any {
	switch v := value.(type) {
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		return v
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
		return v
	default:
		return value
	}
}

// ToFloat parses numeric strings into float64. Input that does not parse is
// kept so that a validator can report it.
func ToFloat(value any) any {
	switch v := value.(type) {
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n
		}
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return value
	}
}

var (
	policyOnce   sync.Once
	ugcPolicy    *bluemonday.Policy
	strictPolicy *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
		strictPolicy = bluemonday.StrictPolicy()
	})
	return ugcPolicy, strictPolicy
}

// SanitizeHTML keeps user-generated-content safe markup (links, emphasis,
// lists) and drops scripts, handlers and unknown elements.
func SanitizeHTML(value any) any {
	ugc, _ := policies()
	return mapString(value, ugc.Sanitize)
}

// StripHTML removes every tag and keeps the text content.
func StripHTML(value any) any {
	_, strict := policies()
	return mapString(value, strict.Sanitize)
}

func mapString(value any, fn func(string) string) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	return fn(s)
}
