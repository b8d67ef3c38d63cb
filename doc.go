// Package formfield builds validated, stateful forms from declarative
// definitions. Definitions come from YAML or JSON files or from the request
// body of an OpenAPI operation. Each field tracks its own value, pristine and
// validation state while a form coordinates shared data and cross-field
// validation.
//
// The lower-level building blocks live in subpackages: pkg/field holds the
// per-field state controller, pkg/form the coordinator, pkg/validators and
// pkg/formatters the reusable rules, and pkg/renderers/tui an interactive
// terminal front end.
package formfield
