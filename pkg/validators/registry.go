package validators

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formfield/pkg/field"
	"github.com/goliatone/go-formfield/pkg/model"
)

// ErrUnknownRule is returned when a rule kind has no registered factory.
var ErrUnknownRule = errors.New("validators: unknown rule kind")

// Factory builds a validator from a declarative rule. The rule message is
// handed to the factory so default messages can be replaced at the source.
type Factory func(rule model.ValidationRule) (field.Validator, error)

// Registry maps rule kinds to factories. The zero value is not usable; call
// NewRegistry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry constructs a registry with the built-in rule kinds registered.
func NewRegistry() *Registry {
	reg := &Registry{factories: make(map[string]Factory)}
	reg.registerBuiltins()
	return reg
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, factory Factory) {
	if r == nil || factory == nil {
		return
	}
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[trimmed] = factory
}

// Kinds lists the registered rule kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

// Build turns a rule into a validation descriptor. A rule whose ExitOnFail is
// explicitly false keeps the run going after it fails.
func (r *Registry) Build(rule model.ValidationRule) (field.Validation, error) {
	kind := strings.TrimSpace(rule.Kind)
	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return field.Validation{}, fmt.Errorf("%w: %q", ErrUnknownRule, kind)
	}

	validator, err := factory(rule)
	if err != nil {
		return field.Validation{}, fmt.Errorf("validators: rule %q: %w", kind, err)
	}

	validation := field.Validation{
		Validator:      validator,
		Type:           field.ValidationType(rule.Type),
		ContinueOnFail: rule.ExitOnFail != nil && !*rule.ExitOnFail,
	}
	if rule.Message != "" {
		validation.Message = field.Literal(rule.Message)
	}
	return validation, nil
}

// FromField builds the validations of a field definition. A required field
// without an explicit required rule gets one first, and an enum adds a
// membership check after the declared rules.
func (r *Registry) FromField(def model.Field) ([]field.Validation, error) {
	var out []field.Validation

	if def.Required && !hasRule(def.Validations, model.ValidationRuleRequired) {
		out = append(out, field.Validation{Validator: Required("")})
	}
	for _, rule := range def.Validations {
		validation, err := r.Build(rule)
		if err != nil {
			return nil, err
		}
		out = append(out, validation)
	}
	if len(def.Enum) > 0 {
		out = append(out, field.Validation{Validator: OneOf(def.Enum, "")})
	}
	return out, nil
}

func hasRule(rules []model.ValidationRule, kind string) bool {
	for _, rule := range rules {
		if strings.TrimSpace(rule.Kind) == kind {
			return true
		}
	}
	return false
}

func (r *Registry) registerBuiltins() {
	r.factories[model.ValidationRuleRequired] = func(rule model.ValidationRule) (field.Validator, error) {
		return Required(rule.Message), nil
	}
	r.factories[model.ValidationRuleMinLength] = func(rule model.ValidationRule) (field.Validator, error) {
		n, err := intParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return MinLength(n, rule.Message), nil
	}
	r.factories[model.ValidationRuleMaxLength] = func(rule model.ValidationRule) (field.Validator, error) {
		n, err := intParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return MaxLength(n, rule.Message), nil
	}
	r.factories[model.ValidationRuleMin] = func(rule model.ValidationRule) (field.Validator, error) {
		bound, err := floatParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return Min(bound, boolParam(rule, "exclusive"), rule.Message), nil
	}
	r.factories[model.ValidationRuleMax] = func(rule model.ValidationRule) (field.Validator, error) {
		bound, err := floatParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return Max(bound, boolParam(rule, "exclusive"), rule.Message), nil
	}
	r.factories[model.ValidationRulePattern] = func(rule model.ValidationRule) (field.Validator, error) {
		raw := rule.Params["pattern"]
		if raw == "" {
			return nil, errors.New("missing pattern param")
		}
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, err
		}
		return Pattern(re, rule.Message), nil
	}
	r.factories[model.ValidationRuleEmail] = func(rule model.ValidationRule) (field.Validator, error) {
		return Email(rule.Message), nil
	}
	r.factories[model.ValidationRuleURL] = func(rule model.ValidationRule) (field.Validator, error) {
		return URL(rule.Message), nil
	}
	r.factories[model.ValidationRuleContainsChars] = func(rule model.ValidationRule) (field.Validator, error) {
		raw := rule.Params["chars"]
		if raw == "" {
			return nil, errors.New("missing chars param")
		}
		chars := make([]string, 0, len(raw))
		for _, c := range raw {
			chars = append(chars, string(c))
		}
		return ContainsChars(chars, rule.Message), nil
	}
	r.factories[model.ValidationRuleStartsWith] = func(rule model.ValidationRule) (field.Validator, error) {
		prefix := rule.Params["char"]
		if prefix == "" {
			prefix = rule.Params["value"]
		}
		if prefix == "" {
			return nil, errors.New("missing char param")
		}
		return StartsWith(prefix, rule.Message), nil
	}
	r.factories[model.ValidationRuleMinSelectable] = func(rule model.ValidationRule) (field.Validator, error) {
		n, err := intParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return MinSelectable(n, rule.Message), nil
	}
}

func intParam(rule model.ValidationRule, key string) (int, error) {
	raw, ok := rule.Params[key]
	if !ok {
		return 0, fmt.Errorf("missing %s param", key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("param %s: %w", key, err)
	}
	return n, nil
}

func floatParam(rule model.ValidationRule, key string) (float64, error) {
	raw, ok := rule.Params[key]
	if !ok {
		return 0, fmt.Errorf("missing %s param", key)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("param %s: %w", key, err)
	}
	return n, nil
}

func boolParam(rule model.ValidationRule, key string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(rule.Params[key]))
	return v
}
