package assertions

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `{
  "type": "object",
  "required": ["id", "name"],
  "properties": {
    "id": {"type": "number"},
    "name": {"type": "string"}
  }
}`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(userSchema), 0o644))
	return path
}

func TestValidateSchema(t *testing.T) {
	path := writeSchema(t)

	assert.NoError(t, ValidateSchema(path, map[string]any{"id": float64(1), "name": "a"}))
	assert.NoError(t, ValidateSchema(path, `{"id": 2, "name": "b"}`))

	err := ValidateSchema(path, map[string]any{"id": "one"})
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, path, schemaErr.Schema)
	assert.NotEmpty(t, schemaErr.Violations)
}

func TestValidateSchema_Errors(t *testing.T) {
	err := ValidateSchema(filepath.Join(t.TempDir(), "missing.json"), map[string]any{})
	assert.ErrorContains(t, err, "failed to read schema file")

	err = ValidateSchema(writeSchema(t), "not json")
	require.Error(t, err)
	var schemaErr *SchemaError
	assert.False(t, errors.As(err, &schemaErr))
}
