// Package parser converts OpenAPI operations into form definitions using
// kin-openapi.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formfield/pkg/model"
)

// DefaultMaxDepth bounds how deep nested objects are expanded into dotted
// paths. Self-referencing schemas stop here.
const DefaultMaxDepth = 8

// ErrOperationNotFound is returned when the document has no operation with
// the requested id.
var ErrOperationNotFound = errors.New("openapi parser: operation not found")

// Option configures Parse.
type Option func(*options)

type options struct {
	maxDepth          int
	resolveReferences bool
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithExternalRefs allows references to other documents and validates the
// loaded document.
func WithExternalRefs(enabled bool) Option {
	return func(o *options) {
		o.resolveReferences = enabled
	}
}

// Operation describes an operation found in a document.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
}

// Operations lists the operations of a document sorted by id. Operations
// without an operationId are keyed "method:path".
func Operations(ctx context.Context, raw []byte, opts ...Option) ([]Operation, error) {
	spec, err := load(ctx, raw, opts)
	if err != nil {
		return nil, err
	}
	var out []Operation
	visit(spec, func(op Operation, _ *openapi3.Operation) bool {
		out = append(out, op)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Parse converts the request body of operationID into a form definition.
func Parse(ctx context.Context, raw []byte, operationID string, opts ...Option) (model.FormModel, error) {
	cfg := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	spec, err := load(ctx, raw, opts)
	if err != nil {
		return model.FormModel{}, err
	}

	var (
		found     Operation
		operation *openapi3.Operation
	)
	visit(spec, func(op Operation, candidate *openapi3.Operation) bool {
		if op.ID != operationID {
			return true
		}
		found, operation = op, candidate
		return false
	})
	if operation == nil {
		return model.FormModel{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	form := model.FormModel{
		ID:          found.ID,
		Title:       operation.Summary,
		Description: operation.Description,
		Endpoint:    found.Path,
		Method:      found.Method,
	}

	schema := requestSchema(operation.RequestBody)
	if schema == nil || schema.Value == nil {
		return form, nil
	}
	c := converter{maxDepth: cfg.maxDepth}
	c.walk(schema, "", false, 0)
	form.Fields = c.fields

	if err := model.Validate(form); err != nil {
		return model.FormModel{}, fmt.Errorf("openapi parser: %w", err)
	}
	return form, nil
}

func load(ctx context.Context, raw []byte, opts []Option) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}
	var cfg options
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.resolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if cfg.resolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	return spec, nil
}

// visit calls fn for every operation until fn returns false.
func visit(spec *openapi3.T, fn func(Operation, *openapi3.Operation) bool) {
	if spec.Paths == nil {
		return
	}
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, method := range []string{"GET", "PUT", "POST", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"} {
			operation := item.GetOperation(method)
			if operation == nil {
				continue
			}
			id := operation.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if !fn(Operation{ID: id, Method: method, Path: path, Summary: operation.Summary}, operation) {
				return
			}
		}
	}
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return mt.Schema
		}
	}
	for _, mt := range content {
		if mt != nil {
			return mt.Schema
		}
	}
	return nil
}
