// Package schemas provides JSON Schema validation for model-produced
// structured resume documents.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed structured_resume.schema.json
var structuredResumeSchema []byte

// ValidationError reports schema violations with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:")
	for _, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// ValidateStructuredResume validates a JSON document against the structured
// resume schema. The schema is permissive about nulls because the extraction
// model reports absent fields as null before normalization.
func ValidateStructuredResume(document []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(structuredResumeSchema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation could not run: %w", err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
