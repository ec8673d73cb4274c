package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": { "type": "string", "minLength": 1 },
		"level": { "type": "integer", "minimum": 1, "maximum": 5 }
	}
}`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateFile_Valid(t *testing.T) {
	schemaPath := writeTempFile(t, "schema.json", testSchema)
	jsonPath := writeTempFile(t, "doc.json", `{"name": "Go", "level": 4}`)

	err := ValidateFile(schemaPath, jsonPath)
	assert.NoError(t, err)
}

func TestValidateFile_MissingRequiredField(t *testing.T) {
	schemaPath := writeTempFile(t, "schema.json", testSchema)
	jsonPath := writeTempFile(t, "doc.json", `{"level": 4}`)

	err := ValidateFile(schemaPath, jsonPath)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
	assert.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, validationErr.Error(), "name")
}

func TestValidateFile_SchemaNotFound(t *testing.T) {
	jsonPath := writeTempFile(t, "doc.json", `{"name": "Go"}`)

	err := ValidateFile("nonexistent_schema.json", jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateFile_JSONNotFound(t *testing.T) {
	schemaPath := writeTempFile(t, "schema.json", testSchema)

	err := ValidateFile(schemaPath, "nonexistent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateFile_MalformedSchema(t *testing.T) {
	schemaPath := writeTempFile(t, "schema.json", `{not json`)
	jsonPath := writeTempFile(t, "doc.json", `{"name": "Go"}`)

	err := ValidateFile(schemaPath, jsonPath)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr), "error should be SchemaLoadError type")
}

func TestValidateString(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", `{"name": "Go", "level": 5}`, false},
		{"missing name", `{"level": 5}`, true},
		{"level out of range", `{"name": "Go", "level": 9}`, true},
		{"empty name", `{"name": ""}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateString(testSchema, tc.doc)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationError_FormatsAllFields(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "level", Message: "must be <= 5"},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "1. name: is required")
	assert.Contains(t, msg, "2. level: must be <= 5")
}

func TestResolveSchemaPath(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "schemas"), 0755))
	target := filepath.Join(dir, "schemas", "cv_record.schema.json")
	require.NoError(t, os.WriteFile(target, []byte(testSchema), 0644))

	resolved := ResolveSchemaPath("schemas/cv_record.schema.json")
	assert.NotEmpty(t, resolved)

	assert.Empty(t, ResolveSchemaPath("schemas/absent.schema.json"))
}
