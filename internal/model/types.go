package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
	FieldTypeText    FieldType = "text"
)

const (
	ValidationRuleRequired      = "required"
	ValidationRuleMin           = "min"
	ValidationRuleMax           = "max"
	ValidationRuleMinLength     = "minLength"
	ValidationRuleMaxLength     = "maxLength"
	ValidationRulePattern       = "pattern"
	ValidationRuleEmail         = "email"
	ValidationRuleURL           = "url"
	ValidationRuleContainsChars = "containsChars"
	ValidationRuleStartsWith    = "startsWith"
	ValidationRuleMinSelectable = "minSelectable"
)

// ValidationRule represents a single validation constraint applied to a field.
// Use the ValidationRule* constants to reference built-in kinds. Thresholds are
// encoded in Params["value"], patterns in Params["pattern"] and character sets
// in Params["chars"], keeping definition files free of typed unions.
//
// Type selects the validation bucket ("field", "async", "array-item"). A nil
// ExitOnFail means "stop after this rule fails".
type ValidationRule struct {
	Kind       string            `json:"kind" yaml:"kind"`
	Params     map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message    string            `json:"message,omitempty" yaml:"message,omitempty"`
	Type       string            `json:"type,omitempty" yaml:"type,omitempty"`
	ExitOnFail *bool             `json:"exitOnFail,omitempty" yaml:"exitOnFail,omitempty"`
}

// Field describes a single form input. Name is the dotted path the value is
// stored under in the form data.
type Field struct {
	Name                     string            `json:"name" yaml:"name"`
	Type                     FieldType         `json:"type" yaml:"type"`
	Format                   string            `json:"format,omitempty" yaml:"format,omitempty"`
	Required                 bool              `json:"required" yaml:"required"`
	Label                    string            `json:"label,omitempty" yaml:"label,omitempty"`
	HelpText                 string            `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Default                  any               `json:"default,omitempty" yaml:"default,omitempty"`
	Enum                     []any             `json:"enum,omitempty" yaml:"enum,omitempty"`
	Validations              []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	Formatters               []string          `json:"formatters,omitempty" yaml:"formatters,omitempty"`
	FieldsToValidateOnChange []string          `json:"fieldsToValidateOnChange,omitempty" yaml:"fieldsToValidateOnChange,omitempty"`
	AsyncValidation          bool              `json:"async,omitempty" yaml:"async,omitempty"`
	ErrorDisplayDelay        string            `json:"errorDisplayDelay,omitempty" yaml:"errorDisplayDelay,omitempty"`
	Metadata                 map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FormModel is the top-level definition consumed by form builders.
type FormModel struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Endpoint    string            `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Method      string            `json:"method,omitempty" yaml:"method,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
