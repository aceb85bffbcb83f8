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

package builtin

import (
	"context"
	"fmt"
	"strings"

	"course-assistant/internal/pipeline/query"
	"course-assistant/internal/storage/metadata"
	"course-assistant/internal/tool"
	"course-assistant/pkg/errors"
)

// CourseOutlineTool 课程大纲工具：返回课程链接与完整课时列表
type CourseOutlineTool struct {
	searcher      *query.Searcher
	metadataStore metadata.Store
}

// NewCourseOutlineTool 创建课程大纲工具
func NewCourseOutlineTool(searcher *query.Searcher, metadataStore metadata.Store) *CourseOutlineTool {
	return &CourseOutlineTool{searcher: searcher, metadataStore: metadataStore}
}

// Definition 实现 tool.Tool
func (t *CourseOutlineTool) Definition() tool.Definition {
	return tool.Definition{
		Name:        "get_course_outline",
		Description: "Get the full outline of a course: its link and the complete list of lessons",
		InputSchema: tool.Schema{
			Type: "object",
			Properties: map[string]tool.SchemaProperty{
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work)",
				},
			},
			Required: []string{"course_name"},
		},
	}
}

// Execute 实现 tool.Tool
func (t *CourseOutlineTool) Execute(ctx context.Context, input map[string]any) (tool.Result, error) {
	courseName, _ := input["course_name"].(string)
	if courseName == "" {
		return tool.Result{}, errors.Wrap(errors.ErrInvalidArg, "course_name 不能为空")
	}

	title, err := t.searcher.ResolveCourseName(ctx, courseName)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return tool.Result{Content: fmt.Sprintf("No course found matching '%s'", courseName), IsError: true}, nil
		}
		return tool.Result{}, err
	}

	course, err := t.metadataStore.Get(ctx, title)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return tool.Result{Content: fmt.Sprintf("No course found matching '%s'", courseName), IsError: true}, nil
		}
		return tool.Result{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", course.Title)
	if course.Link != "" {
		fmt.Fprintf(&b, "Course Link: %s\n", course.Link)
	}
	if course.Instructor != "" {
		fmt.Fprintf(&b, "Instructor: %s\n", course.Instructor)
	}
	fmt.Fprintf(&b, "Lessons (%d):\n", len(course.Lessons))
	for _, lesson := range course.Lessons {
		fmt.Fprintf(&b, "  Lesson %d: %s\n", lesson.Number, lesson.Title)
	}

	return tool.Result{
		Content: strings.TrimRight(b.String(), "\n"),
		Sources: []tool.Source{{Text: course.Title, Link: course.Link}},
	}, nil
}
