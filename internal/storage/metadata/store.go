package metadata

import (
	"context"
	"fmt"

	"course-assistant/pkg/config"
)

// NewStore 根据配置创建课程元数据存储
func NewStore(ctx context.Context, cfg config.MetadataConfig) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(), nil
	case "postgres":
		return NewPgStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("不支持的元数据存储类型: %s", cfg.Type)
	}
}
