package formfield

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-formfield/internal/openapi/parser"
	"github.com/goliatone/go-formfield/pkg/definition"
	"github.com/goliatone/go-formfield/pkg/form"
	"github.com/goliatone/go-formfield/pkg/model"
)

// ErrNoSource is returned when a Source names neither a definition nor an
// OpenAPI document.
var ErrNoSource = errors.New("formfield: no definition or openapi source")

// ParserOption configures OpenAPI parsing.
type ParserOption = parser.Option

// Operation describes an operation found in an OpenAPI document.
type Operation = parser.Operation

var (
	// WithMaxDepth bounds nested object expansion when parsing OpenAPI.
	WithMaxDepth = parser.WithMaxDepth
	// WithExternalRefs allows external references and validates the document.
	WithExternalRefs = parser.WithExternalRefs
)

// Source selects where a form definition is loaded from. DefinitionPath wins
// when both are set.
type Source struct {
	DefinitionPath string
	OpenAPIPath    string
	OperationID    string
}

// Load resolves src into a form definition.
func Load(ctx context.Context, src Source, opts ...ParserOption) (model.FormModel, error) {
	switch {
	case strings.TrimSpace(src.DefinitionPath) != "":
		return definition.LoadFile(src.DefinitionPath)
	case strings.TrimSpace(src.OpenAPIPath) != "":
		if strings.TrimSpace(src.OperationID) == "" {
			return model.FormModel{}, errors.New("formfield: operation id is required with an openapi source")
		}
		raw, err := os.ReadFile(src.OpenAPIPath)
		if err != nil {
			return model.FormModel{}, fmt.Errorf("formfield: read %s: %w", src.OpenAPIPath, err)
		}
		return parser.Parse(ctx, raw, src.OperationID, opts...)
	default:
		return model.FormModel{}, ErrNoSource
	}
}

// Operations lists the operations of the OpenAPI document at path.
func Operations(ctx context.Context, path string, opts ...ParserOption) ([]Operation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formfield: read %s: %w", path, err)
	}
	return parser.Operations(ctx, raw, opts...)
}

// New loads src and builds a form from it.
func New(ctx context.Context, src Source, options ...form.Option) (model.FormModel, *form.Form, error) {
	def, err := Load(ctx, src)
	if err != nil {
		return model.FormModel{}, nil, err
	}
	f, err := form.Build(def, options...)
	if err != nil {
		return model.FormModel{}, nil, err
	}
	return def, f, nil
}
