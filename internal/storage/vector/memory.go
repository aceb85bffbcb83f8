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

package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore 内存向量存储实现（cosine 相似度）
type MemoryStore struct {
	indexes map[string]*memIndex
	mu      sync.RWMutex
}

type memIndex struct {
	meta    *Index
	vectors map[string]*Vector
	order   []string // 保持插入顺序，score 相同时结果稳定
}

// NewMemoryStore 创建新的内存向量存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{indexes: make(map[string]*memIndex)}
}

// Create 创建向量索引
func (s *MemoryStore) Create(ctx context.Context, idx *Index) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.indexes[idx.Name]; exists {
		return fmt.Errorf("索引 %s 已存在", idx.Name)
	}
	s.indexes[idx.Name] = &memIndex{
		meta:    idx,
		vectors: make(map[string]*Vector),
	}
	return nil
}

// Add 添加向量
func (s *MemoryStore) Add(ctx context.Context, indexName string, vectors []*Vector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, exists := s.indexes[indexName]
	if !exists {
		return fmt.Errorf("索引 %s 不存在", indexName)
	}

	for _, v := range vectors {
		if len(v.Values) != idx.meta.Dimension {
			return fmt.Errorf("向量维度 %d 与索引维度 %d 不符", len(v.Values), idx.meta.Dimension)
		}
		if _, ok := idx.vectors[v.ID]; !ok {
			idx.order = append(idx.order, v.ID)
		}
		idx.vectors[v.ID] = v
	}
	return nil
}

// Search 搜索向量
func (s *MemoryStore) Search(ctx context.Context, indexName string, query []float64, options *SearchOptions) ([]*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, exists := s.indexes[indexName]
	if !exists {
		return nil, fmt.Errorf("索引 %s 不存在", indexName)
	}
	if len(query) != idx.meta.Dimension {
		return nil, fmt.Errorf("查询维度 %d 与索引维度 %d 不符", len(query), idx.meta.Dimension)
	}
	if options == nil {
		options = &SearchOptions{TopK: 10}
	}

	var results []*SearchResult
	for _, id := range idx.order {
		v := idx.vectors[id]
		if !matchFilter(v.Metadata, options.Filter) {
			continue
		}
		score := cosineSimilarity(query, v.Values)
		if score < options.Threshold {
			continue
		}
		results = append(results, &SearchResult{
			ID:       id,
			Score:    score,
			Metadata: v.Metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if options.TopK > 0 && len(results) > options.TopK {
		results = results[:options.TopK]
	}
	return results, nil
}

// Count 返回索引中的向量数
func (s *MemoryStore) Count(ctx context.Context, indexName string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, exists := s.indexes[indexName]
	if !exists {
		return 0, fmt.Errorf("索引 %s 不存在", indexName)
	}
	return len(idx.vectors), nil
}

// DeleteIndex 删除索引
func (s *MemoryStore) DeleteIndex(ctx context.Context, indexName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.indexes[indexName]; !exists {
		return fmt.Errorf("索引 %s 不存在", indexName)
	}
	delete(s.indexes, indexName)
	return nil
}

// ListIndexes 列出所有索引
func (s *MemoryStore) ListIndexes(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.indexes))
	for name := range s.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close 关闭存储连接
func (s *MemoryStore) Close() error {
	return nil
}

func matchFilter(metadata, filter map[string]string) bool {
	for key, value := range filter {
		if metadata == nil || metadata[key] != value {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
