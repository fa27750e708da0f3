// Package schema defines the validation capability consumed by the resource
// pipeline and a JSON Schema backed implementation.
package schema

import (
	"fmt"
	"strings"

	"github.com/lspecian/maas-mcp-server/pkg/mcperr"
)

// Schema validates raw values. Concrete per-resource schemas are
// configuration data, not pipeline logic.
type Schema interface {
	// Validate checks raw against the schema and returns the validated
	// value, or a *ValidationError describing every violation.
	Validate(raw any) (any, error)
}

// ValidationError carries the structured field-level issues of a failed
// validation.
type ValidationError struct {
	Issues []mcperr.ValidationIssue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		if issue.Path != "" {
			msgs[i] = fmt.Sprintf("%s: %s", issue.Path, issue.Message)
		} else {
			msgs[i] = issue.Message
		}
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
