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

// Package ingest 实现课程讲稿入库流水线：解析、切片、向量化、写入索引。
package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"course-assistant/internal/storage/metadata"
)

// CourseDocument 解析后的课程文档
type CourseDocument struct {
	Course  *metadata.Course
	Lessons []LessonContent
}

// LessonContent 单个课时的正文；Number 为 -1 表示讲稿没有课时标记
type LessonContent struct {
	Number  int
	Title   string
	Link    string
	Content string
}

// 课时标记：支持 "## Lesson 1: Title" 与 "Lesson 1: Title" 两种写法
var lessonHeading = regexp.MustCompile(`^(?:#{1,3}\s*)?Lesson\s+(\d+):\s*(.*)$`)

// ParseCourseDocument 解析课程讲稿文本。
// 文档头部依次识别课程标题（"# Title" 或 "Course Title: ..."）、
// "Course Link:"、"Instructor:"/"Course Instructor:"；
// 正文按课时标记分段，课时标记下一行允许 "Lesson Link: ..."。
// name 用作无标题文档的兜底课程名。
func ParseCourseDocument(name, content string) *CourseDocument {
	course := &metadata.Course{Title: name}
	lines := strings.Split(content, "\n")

	var lessons []LessonContent
	current := LessonContent{Number: -1}
	var body []string
	inHeader := true
	sawLesson := false

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text == "" && current.Number < 0 {
			body = nil
			return
		}
		current.Content = text
		lessons = append(lessons, current)
		body = nil
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if m := lessonHeading.FindStringSubmatch(line); m != nil {
			if sawLesson || len(body) > 0 {
				flush()
			}
			number, _ := strconv.Atoi(m[1])
			current = LessonContent{Number: number, Title: strings.TrimSpace(m[2])}
			sawLesson = true
			inHeader = false
			continue
		}

		if sawLesson && strings.HasPrefix(line, "Lesson Link:") && current.Link == "" && len(body) == 0 {
			current.Link = strings.TrimSpace(strings.TrimPrefix(line, "Lesson Link:"))
			continue
		}

		if inHeader {
			switch {
			case strings.HasPrefix(line, "Course Title:"):
				if t := strings.TrimSpace(strings.TrimPrefix(line, "Course Title:")); t != "" {
					course.Title = t
				}
				continue
			case strings.HasPrefix(line, "# "):
				if t := strings.TrimSpace(strings.TrimPrefix(line, "# ")); t != "" {
					course.Title = t
				}
				continue
			case strings.HasPrefix(line, "Course Link:"):
				course.Link = strings.TrimSpace(strings.TrimPrefix(line, "Course Link:"))
				continue
			case strings.HasPrefix(line, "Course Instructor:"):
				course.Instructor = strings.TrimSpace(strings.TrimPrefix(line, "Course Instructor:"))
				continue
			case strings.HasPrefix(line, "Instructor:"):
				course.Instructor = strings.TrimSpace(strings.TrimPrefix(line, "Instructor:"))
				continue
			case line == "":
				continue
			}
			// 头部结束，后续内容属于正文
			inHeader = false
		}

		body = append(body, raw)
	}
	flush()

	for _, lesson := range lessons {
		if lesson.Number < 0 {
			continue
		}
		course.Lessons = append(course.Lessons, metadata.Lesson{
			Number: lesson.Number,
			Title:  lesson.Title,
			Link:   lesson.Link,
		})
	}

	return &CourseDocument{Course: course, Lessons: lessons}
}
