// Copyright 2026 fanjia1024
// Secret management abstraction

package secrets

import (
	"context"
)

// Store Secret 存储接口
type Store interface {
	// Get 获取 secret 值
	Get(ctx context.Context, key string) (string, error)

	// Set 设置 secret 值
	Set(ctx context.Context, key string, value string) error

	// Delete 删除 secret
	Delete(ctx context.Context, key string) error

	// List 列出所有 secret keys
	List(ctx context.Context, prefix string) ([]string, error)
}

// Config Secret Store 配置
type Config struct {
	Provider string      `yaml:"provider"` // vault | env | memory
	Vault    VaultConfig `yaml:"vault"`
}

// NewStore 创建 Secret Store
func NewStore(config Config) (Store, error) {
	switch config.Provider {
	case "memory":
		return NewMemoryStore(), nil
	case "env":
		return NewEnvStore(), nil
	case "vault":
		return NewVaultStore(config.Vault)
	default:
		return NewEnvStore(), nil
	}
}

// Resolve 解析一个可能带 secret 引用的值：`vault:key` 走 Store，其余原样返回。
// 配置里的 API Key 允许直接内联、${ENV}（config 包已展开）或 vault: 引用。
func Resolve(ctx context.Context, store Store, value string) (string, error) {
	const prefix = "vault:"
	if store == nil || len(value) <= len(prefix) || value[:len(prefix)] != prefix {
		return value, nil
	}
	return store.Get(ctx, value[len(prefix):])
}
