package llm

import (
	"context"
	"fmt"
)

// Client Completion 服务客户端接口
type Client interface {
	// CreateMessage 发起一次 completion 请求（含可选工具公告）
	CreateMessage(ctx context.Context, req *MessageRequest) (*MessageResponse, error)
	// Model 返回模型名称
	Model() string
	// Provider 返回提供商名称
	Provider() string
}

// ClientOptions 客户端构造参数
type ClientOptions struct {
	Model   string
	APIKey  string
	BaseURL string       // 空则用提供商默认端点
	Limiter *RateLimiter // 可选，按 provider 限流
}

// NewClient 创建 Completion 客户端；目前仅支持 claude（Anthropic Messages API 及其兼容端点）
func NewClient(provider string, opts ClientOptions) (Client, error) {
	switch provider {
	case "", "claude", "anthropic":
		return NewClaudeClient(opts)
	default:
		return nil, fmt.Errorf("不支持的 LLM 提供商: %s", provider)
	}
}
