package vector

import (
	"context"
)

// Store 向量存储接口
type Store interface {
	// Create 创建向量索引
	Create(ctx context.Context, index *Index) error
	// Add 添加向量
	Add(ctx context.Context, indexName string, vectors []*Vector) error
	// Search 搜索向量
	Search(ctx context.Context, indexName string, query []float64, options *SearchOptions) ([]*SearchResult, error)
	// Count 返回索引中的向量数
	Count(ctx context.Context, indexName string) (int, error)
	// DeleteIndex 删除索引
	DeleteIndex(ctx context.Context, indexName string) error
	// ListIndexes 列出所有索引
	ListIndexes(ctx context.Context) ([]string, error)
	// Close 关闭存储连接
	Close() error
}

// Index 向量索引
type Index struct {
	Name      string `json:"name"`      // 索引名称
	Dimension int    `json:"dimension"` // 向量维度
}

// Vector 向量数据；课程分块的正文与归属（course_title / lesson_number 等）放在 Metadata
type Vector struct {
	ID       string            `json:"id"`
	Values   []float64         `json:"values"`
	Metadata map[string]string `json:"metadata"`
}

// SearchOptions 搜索选项
type SearchOptions struct {
	TopK      int               `json:"top_k"`     // 返回前 K 个结果
	Filter    map[string]string `json:"filter"`    // 元数据精确过滤
	Threshold float64           `json:"threshold"` // 相似度阈值
}

// SearchResult 搜索结果
type SearchResult struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

// EnsureIndex 确保索引存在（已存在时静默返回）
func EnsureIndex(ctx context.Context, store Store, name string, dimension int) error {
	indexes, err := store.ListIndexes(ctx)
	if err != nil {
		return err
	}
	for _, idx := range indexes {
		if idx == name {
			return nil
		}
	}
	return store.Create(ctx, &Index{Name: name, Dimension: dimension})
}
