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

package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	einoembed "github.com/cloudwego/eino/components/embedding"
	einoretriever "github.com/cloudwego/eino/components/retriever"

	"course-assistant/internal/storage/metadata"
	"course-assistant/pkg/errors"
)

// 课程/课时过滤在召回后做，多取几倍候选再截断
const filterFetchMultiplier = 4

// SearchHit 单条检索结果
type SearchHit struct {
	Content  string            // 切片正文（含课程/课时上下文前缀）
	Metadata map[string]string // course_title、lesson_number、lesson_link 等
	Score    float64
}

// SearchResults 一次课程内容检索的结果集
type SearchResults struct {
	Hits []SearchHit
}

// IsEmpty 是否没有命中
func (r *SearchResults) IsEmpty() bool {
	return r == nil || len(r.Hits) == 0
}

// Searcher 课程内容检索器：向量召回 + 课程名解析 + 课时过滤
type Searcher struct {
	chunks        einoretriever.Retriever
	catalog       einoretriever.Retriever
	embedder      einoembed.Embedder
	metadataStore metadata.Store
	topK          int
}

// SearcherConfig Searcher 构造参数
type SearcherConfig struct {
	Chunks        einoretriever.Retriever
	Catalog       einoretriever.Retriever
	Embedder      einoembed.Embedder
	MetadataStore metadata.Store
	TopK          int
}

// NewSearcher 创建课程内容检索器
func NewSearcher(cfg *SearcherConfig) (*Searcher, error) {
	if cfg == nil || cfg.Chunks == nil {
		return nil, fmt.Errorf("Searcher 需要 chunks Retriever")
	}
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("Searcher 需要 Embedder")
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	return &Searcher{
		chunks:        cfg.Chunks,
		catalog:       cfg.Catalog,
		embedder:      cfg.Embedder,
		metadataStore: cfg.MetadataStore,
		topK:          topK,
	}, nil
}

// Search 检索课程内容。courseName 为空表示全库检索；lessonNumber 为 nil 表示不限课时。
// courseName 非空时先解析为已入库的课程标题（精确/子串匹配，再语义匹配），
// 解析失败返回包装了 ErrNotFound 的错误。
func (s *Searcher) Search(ctx context.Context, queryText, courseName string, lessonNumber *int) (*SearchResults, error) {
	resolved := ""
	if courseName != "" {
		title, err := s.ResolveCourseName(ctx, courseName)
		if err != nil {
			return nil, err
		}
		resolved = title
	}

	fetchK := s.topK
	if resolved != "" || lessonNumber != nil {
		fetchK = s.topK * filterFetchMultiplier
	}

	docs, err := s.chunks.Retrieve(ctx, queryText,
		einoretriever.WithEmbedding(s.embedder),
		einoretriever.WithTopK(fetchK),
	)
	if err != nil {
		return nil, errors.Wrap(err, "检索课程内容失败")
	}

	results := &SearchResults{}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		meta := metaStrings(doc.MetaData)
		if resolved != "" && meta["course_title"] != resolved {
			continue
		}
		if lessonNumber != nil && meta["lesson_number"] != strconv.Itoa(*lessonNumber) {
			continue
		}
		results.Hits = append(results.Hits, SearchHit{
			Content:  doc.Content,
			Metadata: meta,
			Score:    doc.Score(),
		})
		if len(results.Hits) >= s.topK {
			break
		}
	}
	return results, nil
}

// ResolveCourseName 将用户给的课程名解析为入库标题。
// 先在元数据里做不区分大小写的精确/子串匹配，匹配不到再用课程目录索引做语义匹配。
func (s *Searcher) ResolveCourseName(ctx context.Context, name string) (string, error) {
	if s.metadataStore != nil {
		titles, err := s.metadataStore.ListTitles(ctx)
		if err == nil {
			lower := strings.ToLower(name)
			for _, title := range titles {
				if strings.ToLower(title) == lower {
					return title, nil
				}
			}
			for _, title := range titles {
				if strings.Contains(strings.ToLower(title), lower) {
					return title, nil
				}
			}
		}
	}

	if s.catalog != nil {
		docs, err := s.catalog.Retrieve(ctx, name,
			einoretriever.WithEmbedding(s.embedder),
			einoretriever.WithTopK(1),
		)
		if err == nil && len(docs) > 0 && docs[0] != nil {
			meta := metaStrings(docs[0].MetaData)
			if title := meta["course_title"]; title != "" {
				return title, nil
			}
			if docs[0].Content != "" {
				return docs[0].Content, nil
			}
		}
	}

	return "", errors.Wrapf(errors.ErrNotFound, "No course found matching '%s'", name)
}

func metaStrings(meta map[string]any) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
