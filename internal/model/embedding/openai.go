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

package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIAdapter OpenAI Embedding 适配器
type OpenAIAdapter struct {
	model     string
	apiKey    string
	baseURL   string
	dimension int
	client    *resty.Client
}

// NewOpenAIAdapter 创建 OpenAI Embedding 适配器
func NewOpenAIAdapter(opts Options) (*OpenAIAdapter, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai embedding: APIKey 不能为空")
	}
	model := opts.Model
	if model == "" {
		model = "text-embedding-3-small"
	}
	dimension := opts.Dimension
	if dimension <= 0 {
		dimension = 1536
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(1 * time.Second)
	client.SetRetryMaxWaitTime(5 * time.Second)

	return &OpenAIAdapter{
		model:     model,
		apiKey:    opts.APIKey,
		baseURL:   baseURL,
		dimension: dimension,
		client:    client,
	}, nil
}

// Embed 实现 Embedder
func (a *OpenAIAdapter) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]interface{}{
		"model": a.model,
		"input": texts,
	}

	response, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+a.apiKey).
		SetBody(request).
		Post(a.baseURL + "/embeddings")

	if err != nil {
		return nil, fmt.Errorf("调用 Embedding API 失败: %w", err)
	}

	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("Embedding API 返回错误 (%d): %s", response.StatusCode(), response.String())
	}

	var result struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(response.Body(), &result); err != nil {
		return nil, fmt.Errorf("解析 Embedding 响应失败: %w", err)
	}
	if len(result.Data) != len(texts) {
		return nil, fmt.Errorf("Embedding 返回条数不符: 期望 %d 实际 %d", len(texts), len(result.Data))
	}

	// 按 index 还原输入顺序
	sort.Slice(result.Data, func(i, j int) bool { return result.Data[i].Index < result.Data[j].Index })
	out := make([][]float64, len(result.Data))
	for i, d := range result.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

// Dimension 返回向量维度
func (a *OpenAIAdapter) Dimension() int {
	return a.dimension
}

// Model 返回模型名称
func (a *OpenAIAdapter) Model() string {
	return a.model
}
