package session

import (
	"context"
	"sync"

	"course-assistant/pkg/errors"
)

// Store 会话存储接口
type Store interface {
	// Get 根据 ID 获取会话
	Get(ctx context.Context, id string) (*Session, error)
	// Save 保存会话
	Save(ctx context.Context, s *Session) error
	// Delete 删除会话
	Delete(ctx context.Context, id string) error
	// Close 关闭存储连接
	Close() error
}

// MemoryStore 内存会话存储
type MemoryStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewMemoryStore 创建内存会话存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Get 实现 Store
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "会话 %s 不存在", id)
	}
	cp := *sess
	cp.Messages = append([]Message(nil), sess.Messages...)
	return &cp, nil
}

// Save 实现 Store
func (s *MemoryStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return errors.Wrap(errors.ErrInvalidArg, "会话 ID 不能为空")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	cp.Messages = append([]Message(nil), sess.Messages...)
	s.sessions[sess.ID] = &cp
	return nil
}

// Delete 实现 Store
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Close 实现 Store
func (s *MemoryStore) Close() error {
	return nil
}
