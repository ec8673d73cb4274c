package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-generator/internal/schemas"
)

func TestCVRecordSchema_ValidJSON(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(".", "cv_record.schema.json"))
	require.NoError(t, err, "should be able to read schema file")

	var v interface{}
	err = json.Unmarshal(data, &v)
	assert.NoError(t, err, "schema file should be valid JSON")
}

func TestCVRecordSchema_AcceptsBothConventions(t *testing.T) {
	schema, err := os.ReadFile("cv_record.schema.json")
	require.NoError(t, err)

	cases := []struct {
		name    string
		record  string
		wantErr bool
	}{
		{
			"camelCase identity",
			`{"personalInfo": {"name": "Ada", "title": "Engineer"}}`,
			false,
		},
		{
			"snake_case identity",
			`{"personal_info": {"name": "Ada"}}`,
			false,
		},
		{
			"null collections allowed",
			`{"personal_info": {"name": "Ada"}, "experiences": null, "skills": null}`,
			false,
		},
		{
			"missing identity rejected",
			`{"experiences": []}`,
			true,
		},
		{
			"empty name rejected",
			`{"personalInfo": {"name": ""}}`,
			true,
		},
		{
			"non-array collection rejected",
			`{"personalInfo": {"name": "Ada"}, "skills": "Go"}`,
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := schemas.ValidateString(string(schema), tc.record)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
