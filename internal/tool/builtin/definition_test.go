// Copyright 2026 fanjia1024
// Tests for tool definitions advertised to the completion service

package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchToolDefinition(t *testing.T) {
	searcher, _ := newTestingSearcher(t)
	def := NewCourseSearchTool(searcher).Definition()

	assert.Equal(t, "search_course_content", def.Name)
	assert.NotEmpty(t, def.Description)
	assert.Equal(t, "object", def.InputSchema.Type)
	assert.Contains(t, def.InputSchema.Properties, "query")
	assert.Contains(t, def.InputSchema.Properties, "course_name")
	assert.Contains(t, def.InputSchema.Properties, "lesson_number")
	assert.Equal(t, []string{"query"}, def.InputSchema.Required)

	require.Contains(t, def.InputSchema.Properties, "lesson_number")
	assert.Equal(t, "integer", def.InputSchema.Properties["lesson_number"].Type)
}

func TestOutlineToolDefinition(t *testing.T) {
	searcher, metaStore := newTestingSearcher(t)
	def := NewCourseOutlineTool(searcher, metaStore).Definition()

	assert.Equal(t, "get_course_outline", def.Name)
	assert.NotEmpty(t, def.Description)
	assert.Contains(t, def.InputSchema.Properties, "course_name")
	assert.Equal(t, []string{"course_name"}, def.InputSchema.Required)
}
