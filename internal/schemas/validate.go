// Package schemas provides JSON Schema validation for documents generated
// by the LLM. Every structured response is validated at the boundary before
// it is unmarshaled; a shape mismatch routes the caller to its fallback
// value rather than letting partially-parsed data flow downstream.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Schema names accepted by Validate.
const (
	MoodAnalysis    = "mood_analysis"
	Recommendations = "recommendations"
)

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks a JSON document against the named embedded schema.
// Returns a *ValidationError when the document does not conform, or a
// plain error when the document is not valid JSON at all.
func Validate(name, jsonText string) error {
	schema, err := load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonText))
	if err != nil {
		return fmt.Errorf("failed to validate document: %w", err)
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

// load compiles and caches the named schema.
func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[name]; ok {
		return schema, nil
	}

	data, err := schemaFiles.ReadFile(name + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %q: %w", name, err)
	}

	compiled[name] = schema
	return schema, nil
}
