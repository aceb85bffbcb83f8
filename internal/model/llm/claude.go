package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"course-assistant/pkg/metrics"
)

const (
	defaultClaudeBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion     = "2023-06-01"
)

// ClaudeClient Claude 客户端（Anthropic Messages API）
type ClaudeClient struct {
	provider string
	model    string
	apiKey   string
	baseURL  string
	limiter  *RateLimiter
	client   *resty.Client
}

// NewClaudeClient 创建新的 Claude 客户端
func NewClaudeClient(opts ClientOptions) (*ClaudeClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("claude: APIKey 不能为空")
	}
	model := opts.Model
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultClaudeBaseURL
	}

	// 编排层对传输失败不做重试（失败走降级路径），所以这里不配置 resty retry
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &ClaudeClient{
		provider: "claude",
		model:    model,
		apiKey:   opts.APIKey,
		baseURL:  baseURL,
		limiter:  opts.Limiter,
		client:   client,
	}, nil
}

// CreateMessage 实现 Client
func (c *ClaudeClient) CreateMessage(ctx context.Context, req *MessageRequest) (*MessageResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	if c.limiter != nil {
		release, err := c.limiter.Acquire(ctx, c.provider)
		if err != nil {
			return nil, fmt.Errorf("LLM 限流等待失败: %w", err)
		}
		defer release()
	}

	start := time.Now()
	defer func() {
		metrics.LLMCallDuration.Observe(time.Since(start).Seconds())
	}()

	// 发送请求
	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", c.apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetBody(req).
		Post(c.baseURL + "/messages")

	if err != nil {
		metrics.LLMCallTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("调用 Claude API 失败: %w", err)
	}

	// 检查响应状态
	if response.StatusCode() != http.StatusOK {
		metrics.LLMCallTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("Claude API 返回错误 (%d): %s", response.StatusCode(), response.String())
	}

	// 解析响应
	var result MessageResponse
	if err := json.Unmarshal(response.Body(), &result); err != nil {
		metrics.LLMCallTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("解析 Claude 响应失败: %w", err)
	}
	metrics.LLMCallTotal.WithLabelValues("ok").Inc()

	if len(result.Content) == 0 && result.StopReason != StopToolUse {
		return nil, fmt.Errorf("Claude API 没有返回内容")
	}

	return &result, nil
}

// Model 返回模型名称
func (c *ClaudeClient) Model() string {
	return c.model
}

// Provider 返回提供商名称
func (c *ClaudeClient) Provider() string {
	return c.provider
}
