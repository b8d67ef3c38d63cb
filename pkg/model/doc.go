// Package model defines the declarative form definitions consumed by the form
// builder. Definitions come from YAML/JSON files (package definition) or from
// OpenAPI request bodies, and carry everything needed to construct field
// controllers: dotted paths, labels, help text, defaults, formatter names and
// validation rules. Validation rules expose canonical identifiers (required,
// min/max, minLength/maxLength, pattern, email, url, ...) with string
// parameters so definition files stay free of typed unions and JSON snapshots
// stay deterministic.
package model
