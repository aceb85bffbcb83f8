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

// Package einoext 将内部组件适配为 Eino 接口，并按配置装配
// eino-ext 的 Redis indexer/retriever。
package einoext

import (
	"context"
	"fmt"

	einoembed "github.com/cloudwego/eino/components/embedding"

	"course-assistant/internal/model/embedding"
)

// EmbedderAdapter 将 embedding.Embedder 适配为 Eino 的 embedding.Embedder
type EmbedderAdapter struct {
	inner embedding.Embedder
}

// NewEmbedderAdapter 创建适配器
func NewEmbedderAdapter(inner embedding.Embedder) (*EmbedderAdapter, error) {
	if inner == nil {
		return nil, fmt.Errorf("EmbedderAdapter 需要 Embedder")
	}
	return &EmbedderAdapter{inner: inner}, nil
}

// EmbedStrings 实现 github.com/cloudwego/eino/components/embedding.Embedder
func (a *EmbedderAdapter) EmbedStrings(ctx context.Context, texts []string, _ ...einoembed.Option) ([][]float64, error) {
	return a.inner.Embed(ctx, texts)
}
