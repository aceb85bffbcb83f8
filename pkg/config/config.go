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

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构体
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Assistant  AssistantConfig  `mapstructure:"assistant"`
	Model      ModelConfig      `mapstructure:"model"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Session    SessionConfig    `mapstructure:"session"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
	Log        LogConfig        `mapstructure:"log"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	RateLimits RateLimitsConfig `mapstructure:"rate_limits"`
}

// APIConfig API 服务配置
type APIConfig struct {
	Port    int        `mapstructure:"port"`
	Host    string     `mapstructure:"host"`
	Timeout string     `mapstructure:"timeout"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	Enable       bool     `mapstructure:"enable"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// AssistantConfig 问答编排配置
type AssistantConfig struct {
	MaxToolRounds        int     `mapstructure:"max_tool_rounds"`        // 模型可发起的工具轮上限，<=0 默认 2
	MaxConversationChars int     `mapstructure:"max_conversation_chars"` // 会话安全阈值（字符数），<=0 默认 15000
	MaxHistory           int     `mapstructure:"max_history"`            // 带入上下文的历史轮数，<=0 默认 2
	TopK                 int     `mapstructure:"top_k"`                  // 检索返回条数，<=0 默认 5
	ScoreThreshold       float64 `mapstructure:"score_threshold"`        // 检索相似度阈值
	ChunkSize            int     `mapstructure:"chunk_size"`             // 文档分块大小（字符），<=0 默认 800
	ChunkOverlap         int     `mapstructure:"chunk_overlap"`          // 分块重叠（字符），<0 默认 100
	DocsPath             string  `mapstructure:"docs_path"`              // 课程文档目录
}

// ModelConfig 模型配置
type ModelConfig struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
}

// LLMConfig LLM 模型配置
type LLMConfig struct {
	Providers map[string]ProviderConfig `mapstructure:"providers"`
}

// EmbeddingConfig Embedding 模型配置
type EmbeddingConfig struct {
	Providers map[string]ProviderConfig `mapstructure:"providers"`
}

// ProviderConfig 模型提供商配置
type ProviderConfig struct {
	APIKey  string               `mapstructure:"api_key"`
	BaseURL string               `mapstructure:"base_url"`
	Models  map[string]ModelInfo `mapstructure:"models"`
}

// ModelInfo 模型信息
type ModelInfo struct {
	Name        string  `mapstructure:"name"`
	Temperature float64 `mapstructure:"temperature"`
	Dimension   int     `mapstructure:"dimension"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// DefaultsConfig 默认模型配置
type DefaultsConfig struct {
	LLM       string `mapstructure:"llm"`
	Embedding string `mapstructure:"embedding"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	Metadata MetadataConfig `mapstructure:"metadata"`
	Vector   VectorConfig   `mapstructure:"vector"`
}

// MetadataConfig 课程元数据存储配置
type MetadataConfig struct {
	Type     string `mapstructure:"type"` // memory | postgres
	DSN      string `mapstructure:"dsn"`  // Postgres 连接串，type=postgres 时必填
	PoolSize int    `mapstructure:"pool_size"`
}

// VectorConfig 向量存储配置（memory 为内置内存；redis 使用 eino-ext 组件）
type VectorConfig struct {
	Type       string `mapstructure:"type"`
	Addr       string `mapstructure:"addr"`
	DB         string `mapstructure:"db"`         // memory 忽略；Redis 为 DB 编号，如 "0"
	Collection string `mapstructure:"collection"` // 课程分块索引名，ingest 与 query 共用
	Catalog    string `mapstructure:"catalog"`    // 课程目录索引名（课程名语义匹配用）
	Password   string `mapstructure:"password"`   // Redis 等后端密码，可选
}

// SessionConfig 会话历史存储配置
type SessionConfig struct {
	Type     string `mapstructure:"type"` // memory | redis
	Addr     string `mapstructure:"addr"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
	TTL      string `mapstructure:"ttl"` // 如 "24h"，空则不过期
}

// SecretsConfig Secret 解析配置（API Key 等）
type SecretsConfig struct {
	Provider string `mapstructure:"provider"` // env | vault | memory
	Vault    struct {
		Address    string `mapstructure:"address"`
		Token      string `mapstructure:"token"`
		PathPrefix string `mapstructure:"path_prefix"`
	} `mapstructure:"vault"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig Prometheus 配置
type PrometheusConfig struct {
	Enable bool `mapstructure:"enable"`
}

// RateLimitsConfig 限流配置（LLM Provider 维度）
type RateLimitsConfig struct {
	LLM map[string]LLMRateLimitConfig `mapstructure:"llm"`
}

// LLMRateLimitConfig 单个 LLM Provider 的限流配置
type LLMRateLimitConfig struct {
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
	MaxConcurrent     int     `mapstructure:"max_concurrent"`
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("无法读取配置文件: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}

	// 替换环境变量
	replaceEnvVars(&config)

	return &config, nil
}

// replaceEnvVars 替换配置中 ${VAR} 形式的 API Key
func replaceEnvVars(config *Config) {
	expand := func(providers map[string]ProviderConfig) {
		for name, pc := range providers {
			if strings.HasPrefix(pc.APIKey, "$") {
				envVar := strings.TrimPrefix(strings.TrimSuffix(pc.APIKey, "}"), "${")
				if val := os.Getenv(envVar); val != "" {
					pc.APIKey = val
					providers[name] = pc
				}
			}
		}
	}
	expand(config.Model.LLM.Providers)
	expand(config.Model.Embedding.Providers)
}

// LoadAPIConfig 加载 API 配置（仅 configs/api.yaml）
func LoadAPIConfig() (*Config, error) {
	return LoadConfig("configs/api.yaml")
}

// LoadAPIConfigWithModel 加载 API 配置并合并 model 配置，便于 API 使用 LLM/Embedding
func LoadAPIConfigWithModel() (*Config, error) {
	cfg, err := LoadConfig("configs/api.yaml")
	if err != nil {
		return nil, err
	}
	modelCfg, err := LoadConfig("configs/model.yaml")
	if err == nil {
		cfg.Model = modelCfg.Model
	}
	return cfg, nil
}
