package embedding

import (
	"context"
	"fmt"
)

// Embedder 文本向量化接口
type Embedder interface {
	// Embed 批量向量化文本
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	// Dimension 返回向量维度
	Dimension() int
	// Model 返回模型名称
	Model() string
}

// Options 适配器构造参数
type Options struct {
	Model     string
	APIKey    string
	BaseURL   string
	Dimension int
}

// NewEmbedder 创建 Embedder；目前支持 openai（含兼容端点）
func NewEmbedder(provider string, opts Options) (Embedder, error) {
	switch provider {
	case "", "openai":
		return NewOpenAIAdapter(opts)
	default:
		return nil, fmt.Errorf("不支持的 Embedding 提供商: %s", provider)
	}
}
