// Copyright 2026 fanjia1024
// HashiCorp Vault backed secret store

package secrets

import (
	"context"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// VaultConfig Vault 配置
type VaultConfig struct {
	Address    string `yaml:"address"`     // Vault server 地址（如 http://vault:8200）
	Token      string `yaml:"token"`       // Vault token
	PathPrefix string `yaml:"path_prefix"` // Secret 路径前缀（如 "secret"）
}

type vaultStore struct {
	client     *vault.Client
	pathPrefix string
}

// NewVaultStore 创建 Vault secret store
func NewVaultStore(config VaultConfig) (Store, error) {
	if config.Address == "" {
		config.Address = "http://localhost:8200"
	}

	cfg := vault.DefaultConfig()
	cfg.Address = config.Address

	client, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("创建 vault 客户端失败: %w", err)
	}

	if config.Token != "" {
		client.SetToken(config.Token)
	}

	if _, err := client.Sys().Health(); err != nil {
		return nil, fmt.Errorf("连接 vault 失败: %w", err)
	}

	prefix := "secret"
	if config.PathPrefix != "" {
		prefix = config.PathPrefix
	}

	return &vaultStore{client: client, pathPrefix: prefix}, nil
}

func (v *vaultStore) buildPath(key string) string {
	return v.pathPrefix + "/data/" + key
}

func (v *vaultStore) Get(ctx context.Context, key string) (string, error) {
	secret, err := v.client.Logical().ReadWithContext(ctx, v.buildPath(key))
	if err != nil {
		return "", fmt.Errorf("读取 vault secret 失败: %w", err)
	}
	if secret == nil {
		return "", fmt.Errorf("secret not found: %s", key)
	}

	// KV v2 的 payload 包在 data.data 里
	data := secret.Data
	if inner, ok := data["data"].(map[string]interface{}); ok {
		data = inner
	}
	if val, ok := data["value"].(string); ok {
		return val, nil
	}
	for _, val := range data {
		if s, ok := val.(string); ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("secret %s has no string value", key)
}

func (v *vaultStore) Set(ctx context.Context, key string, value string) error {
	_, err := v.client.Logical().WriteWithContext(ctx, v.buildPath(key), map[string]interface{}{
		"data": map[string]interface{}{"value": value},
	})
	if err != nil {
		return fmt.Errorf("写入 vault secret 失败: %w", err)
	}
	return nil
}

func (v *vaultStore) Delete(ctx context.Context, key string) error {
	_, err := v.client.Logical().DeleteWithContext(ctx, v.buildPath(key))
	if err != nil {
		return fmt.Errorf("删除 vault secret 失败: %w", err)
	}
	return nil
}

func (v *vaultStore) List(ctx context.Context, prefix string) ([]string, error) {
	listPath := v.pathPrefix + "/metadata/" + prefix
	secret, err := v.client.Logical().ListWithContext(ctx, listPath)
	if err != nil {
		return nil, fmt.Errorf("列出 vault secrets 失败: %w", err)
	}
	if secret == nil {
		return nil, nil
	}
	raw, ok := secret.Data["keys"].([]interface{})
	if !ok {
		return nil, nil
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		if s, ok := k.(string); ok {
			keys = append(keys, strings.TrimSuffix(s, "/"))
		}
	}
	return keys, nil
}
