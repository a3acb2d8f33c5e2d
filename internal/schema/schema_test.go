package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	assert.Equal(t, []string{"projects", "timecard", "todos"}, Kinds())
}

func TestFor_Unknown(t *testing.T) {
	_, err := For("invoices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoices")
}

func TestJSON_Todos(t *testing.T) {
	out, err := JSON("todos")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "array", doc["type"])
	assert.Equal(t, "daylog todos", doc["title"])

	items, ok := doc["items"].(map[string]any)
	require.True(t, ok, "items should be inlined")
	props, ok := items["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "taskcode")
	assert.Contains(t, props, "timeRanges")

	typ, ok := props["type"].(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"todo", "calendarEvent"}, typ["enum"])
}

func TestJSON_TimecardAndProjects(t *testing.T) {
	for _, kind := range []string{"timecard", "projects"} {
		out, err := JSON(kind)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(out, &doc))
		assert.Equal(t, "object", doc["type"], kind)
		assert.Contains(t, doc, "additionalProperties", kind)
	}
}

func TestJSON_ProjectTaskcodeAcceptsString(t *testing.T) {
	out, err := JSON("projects")
	require.NoError(t, err)
	assert.Contains(t, string(out), `"oneOf"`)
}
