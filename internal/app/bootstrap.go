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

package app

import (
	"context"
	"fmt"
	"strings"

	"course-assistant/internal/einoext"
	"course-assistant/internal/model/embedding"
	"course-assistant/internal/model/llm"
	"course-assistant/internal/orchestrator"
	"course-assistant/internal/pipeline/ingest"
	"course-assistant/internal/pipeline/query"
	"course-assistant/internal/runtime/session"
	"course-assistant/internal/splitter"
	"course-assistant/internal/storage/metadata"
	"course-assistant/internal/storage/vector"
	"course-assistant/pkg/config"
	"course-assistant/pkg/log"
	"course-assistant/pkg/secrets"
	"course-assistant/pkg/utils"
)

// Bootstrap 装配完成的应用依赖，cmd 层从这里取服务
type Bootstrap struct {
	Config        *config.Config
	Logger        *log.Logger
	Assistant     *Assistant
	Loader        *ingest.CourseLoader
	MetadataStore metadata.Store
	VectorStore   vector.Store
	SessionStore  session.Store
}

// NewBootstrap 按配置装配全部依赖：
// secrets 解析 API Key -> Embedding/LLM 客户端 -> 向量/元数据存储 ->
// Eino Indexer/Retriever（chunks + catalog 两套索引）-> Searcher ->
// 课程加载器 -> 会话管理 -> 编排器 -> Assistant。
func NewBootstrap(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Bootstrap, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置为空")
	}
	if logger == nil {
		logger = log.Discard()
	}

	secretStore, err := secrets.NewStore(secrets.Config{
		Provider: cfg.Secrets.Provider,
		Vault: secrets.VaultConfig{
			Address:    cfg.Secrets.Vault.Address,
			Token:      cfg.Secrets.Vault.Token,
			PathPrefix: cfg.Secrets.Vault.PathPrefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 secret store failed: %w", err)
	}

	embedder, err := newEmbedderFromConfig(ctx, cfg, secretStore)
	if err != nil {
		return nil, err
	}
	llmClient, llmModel, err := newLLMClientFromConfig(ctx, cfg, secretStore)
	if err != nil {
		return nil, err
	}

	metadataStore, err := metadata.NewStore(ctx, cfg.Storage.Metadata)
	if err != nil {
		return nil, fmt.Errorf("初始化元数据存储failed: %w", err)
	}

	vectorCfg := cfg.Storage.Vector
	var vectorStore vector.Store
	if vectorCfg.Type == "" || vectorCfg.Type == "memory" {
		vectorStore = vector.NewMemoryStore()
		dim := embedder.Dimension()
		if err := vector.EnsureIndex(ctx, vectorStore, chunksCollection(vectorCfg), dim); err != nil {
			return nil, fmt.Errorf("创建切片索引failed: %w", err)
		}
		if err := vector.EnsureIndex(ctx, vectorStore, catalogCollection(vectorCfg), dim); err != nil {
			return nil, fmt.Errorf("创建目录索引failed: %w", err)
		}
	}

	einoEmbedder, err := einoext.NewEmbedderAdapter(embedder)
	if err != nil {
		return nil, err
	}

	catalogCfg := vectorCfg
	catalogCfg.Collection = catalogCollection(vectorCfg)

	chunksIndexer, err := einoext.NewIndexer(ctx, vectorCfg, vectorStore, einoEmbedder)
	if err != nil {
		return nil, fmt.Errorf("初始化切片 Indexer failed: %w", err)
	}
	catalogIndexer, err := einoext.NewIndexer(ctx, catalogCfg, vectorStore, einoEmbedder)
	if err != nil {
		return nil, fmt.Errorf("初始化目录 Indexer failed: %w", err)
	}
	chunksRetriever, err := einoext.NewRetriever(ctx, vectorCfg, vectorStore, einoEmbedder, cfg.Assistant.TopK, cfg.Assistant.ScoreThreshold)
	if err != nil {
		return nil, fmt.Errorf("初始化切片 Retriever failed: %w", err)
	}
	catalogRetriever, err := einoext.NewRetriever(ctx, catalogCfg, vectorStore, einoEmbedder, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("初始化目录 Retriever failed: %w", err)
	}

	searcher, err := query.NewSearcher(&query.SearcherConfig{
		Chunks:        chunksRetriever,
		Catalog:       catalogRetriever,
		Embedder:      einoEmbedder,
		MetadataStore: metadataStore,
		TopK:          cfg.Assistant.TopK,
	})
	if err != nil {
		return nil, err
	}

	chunkSize := cfg.Assistant.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 800
	}
	chunkOverlap := cfg.Assistant.ChunkOverlap
	if chunkOverlap < 0 {
		chunkOverlap = 100
	}
	courseIndexer, err := ingest.NewCourseIndexer(&ingest.CourseIndexerConfig{
		Chunks:        chunksIndexer,
		Catalog:       catalogIndexer,
		Embedder:      einoEmbedder,
		MetadataStore: metadataStore,
		Splitter:      splitter.NewSentenceSplitter(chunkSize, chunkOverlap),
	})
	if err != nil {
		return nil, err
	}
	loader, err := ingest.NewCourseLoader(courseIndexer, metadataStore, logger)
	if err != nil {
		return nil, err
	}

	sessionStore, err := session.NewStore(ctx, cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("初始化会话存储failed: %w", err)
	}
	sessions := session.NewManager(sessionStore, cfg.Assistant.MaxHistory)

	orch, err := orchestrator.New(llmClient, orchestrator.Config{
		MaxTokens:            llmModel.MaxTokens,
		Temperature:          llmModel.Temperature,
		MaxRounds:            cfg.Assistant.MaxToolRounds,
		MaxConversationChars: cfg.Assistant.MaxConversationChars,
	}, logger)
	if err != nil {
		return nil, err
	}

	assistant, err := NewAssistant(orch, searcher, metadataStore, sessions, logger)
	if err != nil {
		return nil, err
	}

	return &Bootstrap{
		Config:        cfg,
		Logger:        logger,
		Assistant:     assistant,
		Loader:        loader,
		MetadataStore: metadataStore,
		VectorStore:   vectorStore,
		SessionStore:  sessionStore,
	}, nil
}

// Close 关闭 Bootstrap 持有的存储连接
func (b *Bootstrap) Close() error {
	var firstErr error
	if b.SessionStore != nil {
		if err := b.SessionStore.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if b.MetadataStore != nil {
		if err := b.MetadataStore.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if b.VectorStore != nil {
		if err := b.VectorStore.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// newEmbedderFromConfig 按 model.defaults.embedding（provider.model_key，
// 如 "openai.default"）创建 Embedder，API Key 经 secret store 解析
func newEmbedderFromConfig(ctx context.Context, cfg *config.Config, secretStore secrets.Store) (embedding.Embedder, error) {
	provider, modelKey, err := parseDefaultKey(cfg.Model.Defaults.Embedding)
	if err != nil {
		return nil, fmt.Errorf("defaults.embedding: %w", err)
	}
	pc, ok := cfg.Model.Embedding.Providers[provider]
	if !ok {
		return nil, fmt.Errorf("未配置 Embedding 提供商: %s", provider)
	}
	mi, ok := pc.Models[modelKey]
	if !ok {
		return nil, fmt.Errorf("Embedding model %q 未在 provider %q 中配置", modelKey, provider)
	}
	apiKey, err := secrets.Resolve(ctx, secretStore, pc.APIKey)
	if err != nil {
		return nil, fmt.Errorf("解析 Embedding API Key failed: %w", err)
	}
	return embedding.NewEmbedder(provider, embedding.Options{
		Model:     mi.Name,
		APIKey:    apiKey,
		BaseURL:   pc.BaseURL,
		Dimension: mi.Dimension,
	})
}

// newLLMClientFromConfig 按 model.defaults.llm（provider.model_key，如
// "claude.default"）创建 Completion 客户端，附带 provider 维度限流；
// 同时返回选中的 ModelInfo 供编排器取 max_tokens/temperature。
func newLLMClientFromConfig(ctx context.Context, cfg *config.Config, secretStore secrets.Store) (llm.Client, config.ModelInfo, error) {
	provider, modelKey, err := parseDefaultKey(cfg.Model.Defaults.LLM)
	if err != nil {
		return nil, config.ModelInfo{}, fmt.Errorf("defaults.llm: %w", err)
	}
	pc, ok := cfg.Model.LLM.Providers[provider]
	if !ok {
		return nil, config.ModelInfo{}, fmt.Errorf("未配置 LLM 提供商: %s", provider)
	}
	mi, ok := pc.Models[modelKey]
	if !ok {
		return nil, config.ModelInfo{}, fmt.Errorf("LLM model %q 未在 provider %q 中配置", modelKey, provider)
	}
	apiKey, err := secrets.Resolve(ctx, secretStore, pc.APIKey)
	if err != nil {
		return nil, config.ModelInfo{}, fmt.Errorf("解析 LLM API Key failed: %w", err)
	}

	var limiter *llm.RateLimiter
	if len(cfg.RateLimits.LLM) > 0 {
		limits := make(map[string]llm.LimitConfig, len(cfg.RateLimits.LLM))
		for name, lc := range cfg.RateLimits.LLM {
			limits[name] = llm.LimitConfig{
				RequestsPerMinute: lc.RequestsPerMinute,
				MaxConcurrent:     lc.MaxConcurrent,
			}
		}
		limiter = llm.NewRateLimiter(limits, llm.LimitConfig{})
	}

	client, err := llm.NewClient(provider, llm.ClientOptions{
		Model:   mi.Name,
		APIKey:  apiKey,
		BaseURL: pc.BaseURL,
		Limiter: limiter,
	})
	if err != nil {
		return nil, config.ModelInfo{}, err
	}
	return client, mi, nil
}

// parseDefaultKey 解析 "provider.model_key" 形式的默认模型引用
func parseDefaultKey(key string) (provider, modelKey string, err error) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("默认模型应为 provider.model_key，如 claude.default，当前: %q", key)
	}
	return parts[0], parts[1], nil
}

func chunksCollection(cfg config.VectorConfig) string {
	return utils.CoalesceString(cfg.Collection, "course_chunks")
}

func catalogCollection(cfg config.VectorConfig) string {
	return utils.CoalesceString(cfg.Catalog, "course_catalog")
}
