package model

import (
	"errors"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	valid := FormModel{
		ID: "profile",
		Fields: []Field{
			{Name: "name", Validations: []ValidationRule{{Kind: ValidationRuleRequired}}},
			{Name: "handle", ErrorDisplayDelay: "250ms", Validations: []ValidationRule{{Kind: ValidationRuleMinLength, Type: "async"}}},
		},
	}
	if err := Validate(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name string
		form FormModel
		is   error
	}{
		{"missing id", FormModel{Fields: []Field{{Name: "a"}}}, errFormIDMissing},
		{"missing name", FormModel{ID: "x", Fields: []Field{{Name: " "}}}, errFieldNameMissing},
		{"duplicate", FormModel{ID: "x", Fields: []Field{{Name: "a"}, {Name: "a"}}}, nil},
		{"empty kind", FormModel{ID: "x", Fields: []Field{{Name: "a", Validations: []ValidationRule{{}}}}}, errRuleKindMissing},
		{"bad type", FormModel{ID: "x", Fields: []Field{{Name: "a", Validations: []ValidationRule{{Kind: "min", Type: "remote"}}}}}, nil},
		{"bad delay", FormModel{ID: "x", Fields: []Field{{Name: "a", ErrorDisplayDelay: "later"}}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.form)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
		})
	}
}

func TestParseDelay(t *testing.T) {
	cases := map[string]time.Duration{
		"":      0,
		"300ms": 300 * time.Millisecond,
		"2s":    2 * time.Second,
		"150":   150 * time.Millisecond,
	}
	for input, want := range cases {
		got, err := ParseDelay(input)
		if err != nil {
			t.Fatalf("ParseDelay(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseDelay(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := ParseDelay("soon"); err == nil {
		t.Fatalf("expected error")
	}
}
