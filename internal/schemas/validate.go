// Package schemas validates documents exchanged with the API and gateway against the
// embedded JSON Schemas.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/hirechat/internal/types"
	schemafiles "github.com/jonathan/hirechat/schemas"
)

// FieldError is one schema violation. Field is "(root)" for document-level problems.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("invalid document (%s): %s", ve.Schema, strings.Join(parts, "; "))
}

// SchemaLoadError is returned when a schema is missing or the document is not JSON.
type SchemaLoadError struct {
	Schema string
	Cause  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Schema, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var compiled sync.Map // schema name -> *gojsonschema.Schema

func schemaFor(name string) (*gojsonschema.Schema, error) {
	if s, ok := compiled.Load(name); ok {
		return s.(*gojsonschema.Schema), nil
	}

	raw, err := schemafiles.Files.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("schema not found: %w", err)
		}
		return nil, &SchemaLoadError{Schema: name, Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Cause: err}
	}

	actual, _ := compiled.LoadOrStore(name, s)
	return actual.(*gojsonschema.Schema), nil
}

// Validate encodes document as JSON and checks it against the named schema.
func Validate(schemaName string, document any) error {
	data, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return ValidateBytes(schemaName, data)
}

// ValidateBytes checks raw JSON against the named schema.
func ValidateBytes(schemaName string, data []byte) error {
	schema, err := schemaFor(schemaName)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &SchemaLoadError{Schema: schemaName, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	invalid := &ValidationError{Schema: schemaName}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		invalid.Errors = append(invalid.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return invalid
}

// ValidateFile checks a JSON file on disk against the named schema.
func ValidateFile(schemaName, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("JSON file not found: %s", path)
		}
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return ValidateBytes(schemaName, data)
}

// ValidateDraft checks a job posting draft before it is submitted.
func ValidateDraft(draft types.JobPostingDraft) error {
	return Validate(schemafiles.JobPostingDraft, draft)
}
