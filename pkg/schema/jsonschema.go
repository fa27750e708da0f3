package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/lspecian/maas-mcp-server/pkg/mcperr"
)

// JSONSchema validates values against a compiled JSON Schema document.
type JSONSchema struct {
	compiled *gojsonschema.Schema
}

var _ Schema = (*JSONSchema)(nil)

// MustCompile compiles a JSON Schema document and panics on failure. Schema
// documents are static registration data, so a compile failure is a
// programming error.
func MustCompile(document string) *JSONSchema {
	s, err := Compile(document)
	if err != nil {
		panic(err)
	}
	return s
}

// Compile compiles a JSON Schema document.
func Compile(document string) (*JSONSchema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(document))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &JSONSchema{compiled: compiled}, nil
}

// Validate implements Schema.
func (s *JSONSchema) Validate(raw any) (any, error) {
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	if !result.Valid() {
		issues := make([]mcperr.ValidationIssue, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			issues = append(issues, mcperr.ValidationIssue{
				Path:    resultErr.Field(),
				Message: resultErr.Description(),
			})
		}
		return nil, &ValidationError{Issues: issues}
	}

	return raw, nil
}
