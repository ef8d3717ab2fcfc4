package schemas

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles := []string{
		JobPostingDraft,
		ChatRequest,
	}

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := Files.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			err = json.Unmarshal(data, &schemaObj)
			require.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)

			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			assert.Equal(t, "object", schemaObj["type"])
			_, hasProps := schemaObj["properties"]
			assert.True(t, hasProps, "schema should declare properties")
		})
	}
}

func TestFiles_OnlySchemas(t *testing.T) {
	matches, err := fs.Glob(Files, "*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{JobPostingDraft, ChatRequest}, matches)
}
