package metadata

import (
	"context"
	"sort"
	"sync"

	"course-assistant/pkg/errors"
)

// MemoryStore 内存课程元数据存储实现
type MemoryStore struct {
	courses map[string]*Course
	mu      sync.RWMutex
}

// NewMemoryStore 创建新的内存元数据存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{courses: make(map[string]*Course)}
}

// Upsert 写入课程元数据
func (s *MemoryStore) Upsert(ctx context.Context, course *Course) error {
	if course == nil || course.Title == "" {
		return errors.Wrap(errors.ErrInvalidArg, "课程标题不能为空")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *course
	s.courses[course.Title] = &cp
	return nil
}

// Get 根据课程标题获取元数据
func (s *MemoryStore) Get(ctx context.Context, title string) (*Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[title]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "课程 %s 不存在", title)
	}
	cp := *course
	return &cp, nil
}

// Exists 判断课程是否已入库
func (s *MemoryStore) Exists(ctx context.Context, title string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.courses[title]
	return ok, nil
}

// List 列出全部课程元数据，按标题排序
func (s *MemoryStore) List(ctx context.Context) ([]*Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Course, 0, len(s.courses))
	for _, course := range s.courses {
		cp := *course
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// ListTitles 列出全部课程标题
func (s *MemoryStore) ListTitles(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	titles := make([]string, 0, len(s.courses))
	for title := range s.courses {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles, nil
}

// Count 统计课程数量
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses), nil
}

// Delete 根据标题删除课程元数据
func (s *MemoryStore) Delete(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[title]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "课程 %s 不存在", title)
	}
	delete(s.courses, title)
	return nil
}

// Close 关闭存储连接
func (s *MemoryStore) Close() error {
	return nil
}
