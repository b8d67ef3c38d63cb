package model

import (
	"time"

	internalmodel "github.com/goliatone/go-formfield/internal/model"
)

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeArray   = internalmodel.FieldTypeArray
	FieldTypeObject  = internalmodel.FieldTypeObject
	FieldTypeText    = internalmodel.FieldTypeText
)

const (
	ValidationRuleRequired      = internalmodel.ValidationRuleRequired
	ValidationRuleMin           = internalmodel.ValidationRuleMin
	ValidationRuleMax           = internalmodel.ValidationRuleMax
	ValidationRuleMinLength     = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength     = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern       = internalmodel.ValidationRulePattern
	ValidationRuleEmail         = internalmodel.ValidationRuleEmail
	ValidationRuleURL           = internalmodel.ValidationRuleURL
	ValidationRuleContainsChars = internalmodel.ValidationRuleContainsChars
	ValidationRuleStartsWith    = internalmodel.ValidationRuleStartsWith
	ValidationRuleMinSelectable = internalmodel.ValidationRuleMinSelectable
)

type ValidationRule = internalmodel.ValidationRule
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel

// Validate reports structural problems in a form definition.
func Validate(form FormModel) error {
	return internalmodel.Validate(form)
}

// ParseDelay parses an error display delay ("300ms" or "300").
func ParseDelay(raw string) (time.Duration, error) {
	return internalmodel.ParseDelay(raw)
}

// DefaultLabeler derives a label from a dotted field path.
func DefaultLabeler(path string) string {
	return internalmodel.DefaultLabeler(path)
}
