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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"course-assistant/internal/storage/metadata"
	"course-assistant/pkg/log"
)

// CourseLoader 课程讲稿加载器：遍历目录、解析文件、跳过已入库课程
type CourseLoader struct {
	indexer       *CourseIndexer
	metadataStore metadata.Store
	logger        *log.Logger
}

// LoadResult 目录加载结果
type LoadResult struct {
	CoursesAdded int
	ChunksAdded  int
	Skipped      int
}

// NewCourseLoader 创建课程加载器
func NewCourseLoader(indexer *CourseIndexer, metadataStore metadata.Store, logger *log.Logger) (*CourseLoader, error) {
	if indexer == nil || metadataStore == nil {
		return nil, fmt.Errorf("CourseLoader 需要 indexer 与元数据存储")
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &CourseLoader{indexer: indexer, metadataStore: metadataStore, logger: logger}, nil
}

// LoadFolder 加载目录下的全部课程讲稿（.txt/.md/.pdf），已入库课程跳过
func (l *CourseLoader) LoadFolder(ctx context.Context, dir string) (*LoadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取课程目录failed: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".md", ".pdf":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	result := &LoadResult{}
	for _, name := range names {
		added, chunks, err := l.LoadFile(ctx, filepath.Join(dir, name))
		if err != nil {
			l.logger.Warn("加载课程文件失败", "file", name, "error", err)
			continue
		}
		if !added {
			result.Skipped++
			continue
		}
		result.CoursesAdded++
		result.ChunksAdded += chunks
	}
	return result, nil
}

// LoadFile 加载单个讲稿文件；课程已存在时返回 added=false
func (l *CourseLoader) LoadFile(ctx context.Context, path string) (added bool, chunks int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, 0, fmt.Errorf("读取文件failed: %w", err)
	}

	content := string(data)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		content, err = ExtractPDFText(data)
		if err != nil {
			return false, 0, err
		}
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := ParseCourseDocument(base, content)
	if len(doc.Lessons) == 0 {
		return false, 0, fmt.Errorf("讲稿没有可索引的正文")
	}

	exists, err := l.metadataStore.Exists(ctx, doc.Course.Title)
	if err != nil {
		return false, 0, err
	}
	if exists {
		l.logger.Info("课程已入库，跳过", "course", doc.Course.Title)
		return false, 0, nil
	}

	count, err := l.indexer.IndexCourse(ctx, doc)
	if err != nil {
		return false, 0, err
	}
	l.logger.Info("课程入库完成", "course", doc.Course.Title, "chunks", count)
	return true, count, nil
}
