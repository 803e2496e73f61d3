package assertions

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaError lists the violations found by ValidateSchema.
type SchemaError struct {
	Schema     string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema validation failed against %s: %s", e.Schema, strings.Join(e.Violations, "; "))
}

// ValidateSchema checks a normalized response value against the JSON schema
// in schemaPath. Raw string bodies are validated as JSON documents.
func ValidateSchema(schemaPath string, value any) error {
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	var document []byte
	switch v := value.(type) {
	case string:
		document = []byte(v)
	case []byte:
		document = v
	default:
		document, err = json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal response value: %w", err)
		}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return &SchemaError{Schema: schemaPath, Violations: violations}
}
