package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"course-assistant/pkg/config"
	"course-assistant/pkg/errors"
)

// Manager 会话管理器：按 ID 取会话，不存在则新建
type Manager struct {
	store    Store
	maxTurns int
}

// NewManager 创建会话管理器；maxTurns 为注入历史的最大往返数
func NewManager(store Store, maxTurns int) *Manager {
	if maxTurns <= 0 {
		maxTurns = 2
	}
	return &Manager{store: store, maxTurns: maxTurns}
}

// GetOrCreate 获取会话；id 为空或不存在时创建新会话
func (m *Manager) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	if id != "" {
		sess, err := m.store.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
	}
	sess := NewSession(uuid.New().String())
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Save 保存会话
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	return m.store.Save(ctx, sess)
}

// History 返回注入指令上下文的历史文本
func (m *Manager) History(sess *Session) string {
	return sess.FormatHistory(m.maxTurns)
}

// NewStore 根据配置创建会话存储
func NewStore(ctx context.Context, cfg config.SessionConfig) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		ttl := time.Duration(0)
		if cfg.TTL != "" {
			parsed, err := time.ParseDuration(cfg.TTL)
			if err != nil {
				return nil, errors.Wrap(err, "解析会话 TTL 失败")
			}
			ttl = parsed
		}
		addr := cfg.Addr
		if addr == "" {
			addr = "localhost:6379"
		}
		return NewRedisStore(ctx, &redis.Options{
			Addr:     addr,
			DB:       cfg.DB,
			Password: cfg.Password,
		}, ttl)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidArg, "不支持的会话存储类型: %s", cfg.Type)
	}
}
