package formatters

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formfield/pkg/field"
)

// ErrUnknownFormatter is returned when a name has no registered formatter.
var ErrUnknownFormatter = errors.New("formatters: unknown formatter")

// Built-in formatter names.
const (
	NameTrim           = "trim"
	NameLowercase      = "lowercase"
	NameUppercase      = "uppercase"
	NameCollapseSpaces = "collapseSpaces"
	NameToInt          = "toInt"
	NameToFloat        = "toFloat"
	NameSanitizeHTML   = "sanitizeHTML"
	NameStripHTML      = "stripHTML"
)

// Registry maps names to formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]field.Formatter
}

// NewRegistry constructs a registry with the built-in formatters registered.
func NewRegistry() *Registry {
	return &Registry{formatters: map[string]field.Formatter{
		NameTrim:           Trim,
		NameLowercase:      Lowercase,
		NameUppercase:      Uppercase,
		NameCollapseSpaces: CollapseSpaces,
		NameToInt:          ToInt,
		NameToFloat:        ToFloat,
		NameSanitizeHTML:   SanitizeHTML,
		NameStripHTML:      StripHTML,
	}}
}

// Register adds or replaces a named formatter.
func (r *Registry) Register(name string, formatter field.Formatter) {
	if r == nil || formatter == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[trimmed] = formatter
}

// Names lists the registered formatter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the formatters for names in the given order.
func (r *Registry) Resolve(names ...string) ([]field.Formatter, error) {
	if len(names) == 0 {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]field.Formatter, 0, len(names))
	for _, name := range names {
		formatter, ok := r.formatters[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormatter, name)
		}
		out = append(out, formatter)
	}
	return out, nil
}
