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

package ingest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	einoembed "github.com/cloudwego/eino/components/embedding"
	einoindexer "github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"course-assistant/internal/splitter"
	"course-assistant/internal/storage/metadata"
)

// CourseIndexer 课程索引器：切片课时正文并写入向量索引与元数据存储。
// chunks 与 catalog 是两个已绑定各自索引的 Eino Indexer：
// chunks 存课时切片，catalog 存课程标题（课程名语义匹配用）。
type CourseIndexer struct {
	chunks        einoindexer.Indexer
	catalog       einoindexer.Indexer
	embedder      einoembed.Embedder
	metadataStore metadata.Store
	splitter      *splitter.SentenceSplitter
}

// CourseIndexerConfig CourseIndexer 构造参数
type CourseIndexerConfig struct {
	Chunks        einoindexer.Indexer
	Catalog       einoindexer.Indexer
	Embedder      einoembed.Embedder
	MetadataStore metadata.Store
	Splitter      *splitter.SentenceSplitter
}

// NewCourseIndexer 创建课程索引器
func NewCourseIndexer(cfg *CourseIndexerConfig) (*CourseIndexer, error) {
	if cfg == nil || cfg.Chunks == nil || cfg.Catalog == nil {
		return nil, fmt.Errorf("CourseIndexer 需要 chunks 与 catalog Indexer")
	}
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("CourseIndexer 需要 Embedder")
	}
	if cfg.MetadataStore == nil {
		return nil, fmt.Errorf("CourseIndexer 需要元数据存储")
	}
	s := cfg.Splitter
	if s == nil {
		s = splitter.NewSentenceSplitter(800, 100)
	}
	return &CourseIndexer{
		chunks:        cfg.Chunks,
		catalog:       cfg.Catalog,
		embedder:      cfg.Embedder,
		metadataStore: cfg.MetadataStore,
		splitter:      s,
	}, nil
}

// IndexCourse 索引一门课程，返回写入的切片数
func (i *CourseIndexer) IndexCourse(ctx context.Context, doc *CourseDocument) (int, error) {
	if doc == nil || doc.Course == nil || doc.Course.Title == "" {
		return 0, fmt.Errorf("课程文档缺少标题")
	}

	chunkDocs := i.buildChunkDocs(doc)
	if len(chunkDocs) > 0 {
		if _, err := i.chunks.Store(ctx, chunkDocs, einoindexer.WithEmbedding(i.embedder)); err != nil {
			return 0, fmt.Errorf("写入课程切片failed: %w", err)
		}
	}

	catalogDoc := &schema.Document{
		ID:      uuid.New().String(),
		Content: doc.Course.Title,
		MetaData: map[string]any{
			"course_title": doc.Course.Title,
		},
	}
	if _, err := i.catalog.Store(ctx, []*schema.Document{catalogDoc}, einoindexer.WithEmbedding(i.embedder)); err != nil {
		return 0, fmt.Errorf("写入课程目录failed: %w", err)
	}

	course := *doc.Course
	if course.AddedAt.IsZero() {
		course.AddedAt = time.Now()
	}
	if err := i.metadataStore.Upsert(ctx, &course); err != nil {
		return 0, fmt.Errorf("写入课程元数据failed: %w", err)
	}

	return len(chunkDocs), nil
}

// buildChunkDocs 将课时正文切片并带上课程/课时上下文前缀
func (i *CourseIndexer) buildChunkDocs(doc *CourseDocument) []*schema.Document {
	var out []*schema.Document
	chunkIndex := 0
	for _, lesson := range doc.Lessons {
		if lesson.Content == "" {
			continue
		}
		for _, chunk := range i.splitter.Split(lesson.Content) {
			meta := map[string]any{
				"course_title": doc.Course.Title,
				"chunk_index":  strconv.Itoa(chunkIndex),
			}
			if doc.Course.Link != "" {
				meta["course_link"] = doc.Course.Link
			}
			content := chunk.Text
			if lesson.Number >= 0 {
				meta["lesson_number"] = strconv.Itoa(lesson.Number)
				if lesson.Title != "" {
					meta["lesson_title"] = lesson.Title
				}
				if lesson.Link != "" {
					meta["lesson_link"] = lesson.Link
				}
				content = fmt.Sprintf("Course %s Lesson %d content: %s", doc.Course.Title, lesson.Number, chunk.Text)
			} else {
				content = fmt.Sprintf("Course %s content: %s", doc.Course.Title, chunk.Text)
			}
			out = append(out, &schema.Document{
				ID:       uuid.New().String(),
				Content:  content,
				MetaData: meta,
			})
			chunkIndex++
		}
	}
	return out
}
