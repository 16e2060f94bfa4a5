package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_IsValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal(Schema(), &v))
	assert.Equal(t, "object", v["type"])

	_, err := compileSchema()
	require.NoError(t, err)
}

func TestValidateDocument(t *testing.T) {
	valid := map[string]any{
		"rest": map[string]any{
			"configs": []any{
				map[string]any{
					"method": "get",
					"path":   "/x",
					"routes": []any{map[string]any{"data": nil, "settings": map[string]any{"status": 200}}},
				},
			},
		},
	}
	assert.True(t, ValidateDocument(valid).IsValid())

	invalid := map[string]any{
		"rest": map[string]any{
			"configs": []any{
				map[string]any{
					"method": "get",
					"routes": []any{map[string]any{"settings": map[string]any{"polling": "yes"}}},
				},
			},
		},
	}
	result := ValidateDocument(invalid)
	require.False(t, result.IsValid())

	var paths []string
	for _, e := range result.Errors {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, "rest.configs.0.routes.0.settings.polling")
	assert.Contains(t, result.Error(), "rest.configs.0.routes.0.settings.polling")
}

func TestValidateDocument_GraphQL(t *testing.T) {
	doc := map[string]any{
		"graphql": map[string]any{
			"baseUrl": "/graphql",
			"configs": []any{
				map[string]any{
					"operationType": "query",
					"operationName": "GetUsers",
					"routes":        []any{map[string]any{"entities": map[string]any{"variables": map[string]any{"id": 1}}}},
				},
			},
		},
	}
	assert.True(t, ValidateDocument(doc).IsValid())

	doc["graphql"].(map[string]any)["configs"] = []any{map[string]any{"operationName": "X", "routes": []any{}}}
	assert.False(t, ValidateDocument(doc).IsValid(), "operationType is required")
}

func TestSchemaValidationResult(t *testing.T) {
	r := &SchemaValidationResult{}
	assert.True(t, r.IsValid())
	assert.NoError(t, r.Err())
	assert.Empty(t, r.Error())

	r.AddError("a.b", "bad")
	r.AddError("", "worse")
	assert.False(t, r.IsValid())
	assert.Equal(t, "a.b: bad\nworse", r.Error())
	assert.Error(t, r.Err())
}
