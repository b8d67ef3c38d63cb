package parser

import (
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formfield/pkg/model"
)

type converter struct {
	maxDepth int
	fields   []model.Field
}

// walk flattens object properties into dotted paths and emits one field per
// leaf. Arrays are leaves; their item enum becomes the field enum.
func (c *converter) walk(ref *openapi3.SchemaRef, path string, required bool, depth int) {
	if ref == nil || ref.Value == nil {
		return
	}
	src := ref.Value
	if src.ReadOnly {
		return
	}

	if firstSchemaType(src.Type) == "object" || (src.Type == nil && len(src.Properties) > 0) {
		if depth >= c.maxDepth {
			return
		}
		requiredSet := make(map[string]struct{}, len(src.Required))
		for _, name := range src.Required {
			requiredSet[name] = struct{}{}
		}
		names := make([]string, 0, len(src.Properties))
		for name := range src.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			_, isRequired := requiredSet[name]
			c.walk(src.Properties[name], joinPath(path, name), isRequired, depth+1)
		}
		return
	}
	if path == "" {
		return
	}
	c.fields = append(c.fields, convertField(src, path, required))
}

func convertField(src *openapi3.Schema, path string, required bool) model.Field {
	field := model.Field{
		Name:     path,
		Type:     mapType(firstSchemaType(src.Type)),
		Format:   src.Format,
		Required: required,
		Label:    src.Title,
		HelpText: src.Description,
		Default:  src.Default,
	}
	if src.Format == "textarea" {
		field.Type = model.FieldTypeText
	}
	if len(src.Enum) > 0 {
		field.Enum = append([]any(nil), src.Enum...)
	}
	if field.Type == model.FieldTypeArray && src.Items != nil && src.Items.Value != nil && len(src.Items.Value.Enum) > 0 {
		field.Enum = append([]any(nil), src.Items.Value.Enum...)
	}
	field.Validations = validationRules(src, field.Type)
	return field
}

func mapType(schemaType string) model.FieldType {
	switch schemaType {
	case "integer":
		return model.FieldTypeInteger
	case "number":
		return model.FieldTypeNumber
	case "boolean":
		return model.FieldTypeBoolean
	case "array":
		return model.FieldTypeArray
	default:
		return model.FieldTypeString
	}
}

func validationRules(src *openapi3.Schema, fieldType model.FieldType) []model.ValidationRule {
	var rules []model.ValidationRule

	if src.Min != nil {
		params := map[string]string{"value": formatFloat(*src.Min)}
		if src.ExclusiveMin {
			params["exclusive"] = "true"
		}
		rules = append(rules, model.ValidationRule{Kind: model.ValidationRuleMin, Params: params})
	}
	if src.Max != nil {
		params := map[string]string{"value": formatFloat(*src.Max)}
		if src.ExclusiveMax {
			params["exclusive"] = "true"
		}
		rules = append(rules, model.ValidationRule{Kind: model.ValidationRuleMax, Params: params})
	}
	if src.MinLength > 0 {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(src.MinLength, 10)},
		})
	}
	if src.MaxLength != nil {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*src.MaxLength, 10)},
		})
	}
	if src.Pattern != "" {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRulePattern,
			Params: map[string]string{"pattern": src.Pattern},
		})
	}
	switch strings.ToLower(src.Format) {
	case "email":
		rules = append(rules, model.ValidationRule{Kind: model.ValidationRuleEmail})
	case "uri", "url":
		rules = append(rules, model.ValidationRule{Kind: model.ValidationRuleURL})
	}
	if fieldType == model.FieldTypeArray && src.MinItems > 0 {
		rules = append(rules, model.ValidationRule{
			Kind:   model.ValidationRuleMinSelectable,
			Params: map[string]string{"value": strconv.FormatUint(src.MinItems, 10)},
		})
	}
	return rules
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	for _, value := range values {
		if value != "null" {
			return value
		}
	}
	return ""
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
