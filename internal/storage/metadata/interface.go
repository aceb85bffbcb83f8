package metadata

import (
	"context"
	"time"
)

// Store 课程元数据存储接口
type Store interface {
	// Upsert 写入课程元数据，标题相同则覆盖
	Upsert(ctx context.Context, course *Course) error
	// Get 根据课程标题获取元数据
	Get(ctx context.Context, title string) (*Course, error)
	// Exists 判断课程是否已入库
	Exists(ctx context.Context, title string) (bool, error)
	// List 列出全部课程元数据
	List(ctx context.Context) ([]*Course, error)
	// ListTitles 列出全部课程标题
	ListTitles(ctx context.Context) ([]string, error)
	// Count 统计课程数量
	Count(ctx context.Context) (int, error)
	// Delete 根据标题删除课程元数据
	Delete(ctx context.Context, title string) error
	// Close 关闭存储连接
	Close() error
}

// Course 课程元数据
type Course struct {
	Title      string    `json:"title"`       // 课程标题，作为唯一标识
	Link       string    `json:"course_link"` // 课程主页链接
	Instructor string    `json:"instructor"`  // 讲师
	Lessons    []Lesson  `json:"lessons"`     // 课时列表
	AddedAt    time.Time `json:"added_at"`    // 入库时间
}

// Lesson 课时元数据
type Lesson struct {
	Number int    `json:"lesson_number"` // 课时编号
	Title  string `json:"lesson_title"`  // 课时标题
	Link   string `json:"lesson_link"`   // 课时链接
}
