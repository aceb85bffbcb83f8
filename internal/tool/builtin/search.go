// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package builtin 提供课程问答的内置工具。
package builtin

import (
	"context"
	"fmt"
	"strings"

	"course-assistant/internal/pipeline/query"
	"course-assistant/internal/tool"
	"course-assistant/pkg/errors"
)

// CourseSearchTool 课程内容检索工具，供模型按需调用
type CourseSearchTool struct {
	searcher *query.Searcher
}

// NewCourseSearchTool 创建课程内容检索工具
func NewCourseSearchTool(searcher *query.Searcher) *CourseSearchTool {
	return &CourseSearchTool{searcher: searcher}
}

// Definition 实现 tool.Tool
func (t *CourseSearchTool) Definition() tool.Definition {
	return tool.Definition{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: tool.Schema{
			Type: "object",
			Properties: map[string]tool.SchemaProperty{
				"query": {
					Type:        "string",
					Description: "What to search for in the course content",
				},
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": {
					Type:        "integer",
					Description: "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// Execute 实现 tool.Tool
func (t *CourseSearchTool) Execute(ctx context.Context, input map[string]any) (tool.Result, error) {
	queryText, _ := input["query"].(string)
	if queryText == "" {
		return tool.Result{}, errors.Wrap(errors.ErrInvalidArg, "query 不能为空")
	}
	courseName, _ := input["course_name"].(string)
	lesson := lessonNumber(input)

	results, err := t.searcher.Search(ctx, queryText, courseName, lesson)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return tool.Result{Content: fmt.Sprintf("No course found matching '%s'", courseName), IsError: true}, nil
		}
		return tool.Result{}, err
	}

	if results.IsEmpty() {
		return tool.Result{Content: emptyMessage(courseName, lesson)}, nil
	}

	return formatResults(results), nil
}

// lessonNumber 从输入里取课时号；JSON 数字解码为 float64
func lessonNumber(input map[string]any) *int {
	switch v := input["lesson_number"].(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		return &v
	default:
		return nil
	}
}

func emptyMessage(courseName string, lesson *int) string {
	var b strings.Builder
	b.WriteString("No relevant content found")
	if courseName != "" {
		fmt.Fprintf(&b, " in course '%s'", courseName)
	}
	if lesson != nil {
		fmt.Fprintf(&b, " in lesson %d", *lesson)
	}
	b.WriteString(".")
	return b.String()
}

// formatResults 拼装带课程/课时标头的文本块，并收集来源
func formatResults(results *query.SearchResults) tool.Result {
	var blocks []string
	var sources []tool.Source
	for _, hit := range results.Hits {
		courseTitle := hit.Metadata["course_title"]
		if courseTitle == "" {
			courseTitle = "unknown"
		}
		lessonNum := hit.Metadata["lesson_number"]

		header := fmt.Sprintf("[%s]", courseTitle)
		sourceText := courseTitle
		if lessonNum != "" {
			header = fmt.Sprintf("[%s - Lesson %s]", courseTitle, lessonNum)
			sourceText = fmt.Sprintf("%s - Lesson %s", courseTitle, lessonNum)
		}
		blocks = append(blocks, fmt.Sprintf("%s\n%s", header, hit.Content))

		link := hit.Metadata["lesson_link"]
		if link == "" {
			link = hit.Metadata["course_link"]
		}
		sources = append(sources, tool.Source{Text: sourceText, Link: link})
	}
	return tool.Result{
		Content: strings.Join(blocks, "\n\n"),
		Sources: sources,
	}
}
