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

package einoext

import (
	"context"
	"fmt"

	redisindexer "github.com/cloudwego/eino-ext/components/indexer/redis"
	redisretriever "github.com/cloudwego/eino-ext/components/retriever/redis"
	einoembed "github.com/cloudwego/eino/components/embedding"
	einoindexer "github.com/cloudwego/eino/components/indexer"
	einoretriever "github.com/cloudwego/eino/components/retriever"
	"github.com/redis/go-redis/v9"

	"course-assistant/internal/pipeline/ingest"
	"course-assistant/internal/pipeline/query"
	"course-assistant/internal/storage/vector"
	"course-assistant/pkg/config"
)

const (
	defaultBatchSize  = 100
	defaultTopK       = 5
	defaultCollection = "course_chunks"
)

// NewIndexer 根据 VectorConfig 创建 Eino Indexer（memory 用内置 vector.Store；redis 用 eino-ext）
func NewIndexer(ctx context.Context, cfg config.VectorConfig, vectorStore vector.Store, embedder einoembed.Embedder) (einoindexer.Indexer, error) {
	t := cfg.Type
	if t == "" {
		t = "memory"
	}
	switch t {
	case "memory":
		if vectorStore == nil {
			return nil, fmt.Errorf("vector type is memory but VectorStore is nil")
		}
		return ingest.NewMemoryIndexer(&ingest.MemoryIndexerConfig{
			VectorStore:       vectorStore,
			DefaultCollection: collectionOrDefault(cfg.Collection),
			BatchSize:         defaultBatchSize,
		})
	case "redis":
		client, err := newRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		idx, err := redisindexer.NewIndexer(ctx, &redisindexer.IndexerConfig{
			Client:    client,
			KeyPrefix: collectionOrDefault(cfg.Collection),
			BatchSize: defaultBatchSize,
			Embedding: embedder,
		})
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis indexer: %w", err)
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("unsupported vector type: %s", t)
	}
}

// NewRetriever 根据 VectorConfig 创建 Eino Retriever（memory 用内置 vector.Store；redis 用 eino-ext）
func NewRetriever(ctx context.Context, cfg config.VectorConfig, vectorStore vector.Store, embedder einoembed.Embedder, topK int, threshold float64) (einoretriever.Retriever, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	t := cfg.Type
	if t == "" {
		t = "memory"
	}
	switch t {
	case "memory":
		if vectorStore == nil {
			return nil, fmt.Errorf("vector type is memory but VectorStore is nil")
		}
		return query.NewMemoryRetriever(&query.MemoryRetrieverConfig{
			VectorStore:      vectorStore,
			DefaultIndex:     collectionOrDefault(cfg.Collection),
			DefaultTopK:      topK,
			DefaultThreshold: threshold,
		})
	case "redis":
		client, err := newRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		ret, err := redisretriever.NewRetriever(ctx, &redisretriever.RetrieverConfig{
			Client:    client,
			Index:     collectionOrDefault(cfg.Collection),
			TopK:      topK,
			Embedding: embedder,
		})
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis retriever: %w", err)
		}
		return ret, nil
	default:
		return nil, fmt.Errorf("unsupported vector type: %s", t)
	}
}

func newRedisClient(ctx context.Context, cfg config.VectorConfig) (*redis.Client, error) {
	opts, err := RedisOptionsFromVectorConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis options: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func collectionOrDefault(collection string) string {
	if collection == "" {
		return defaultCollection
	}
	return collection
}
