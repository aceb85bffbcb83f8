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

package metadata

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"course-assistant/pkg/errors"
)

// PgStore PostgreSQL 课程元数据存储，使用 courses 表，lessons 存 jsonb
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore 创建基于 PostgreSQL 的元数据存储并建表
func NewPgStore(ctx context.Context, dsn string) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "连接 PostgreSQL 失败")
	}
	s := &PgStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PgStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS courses (
  title       TEXT PRIMARY KEY,
  course_link TEXT NOT NULL DEFAULT '',
  instructor  TEXT NOT NULL DEFAULT '',
  lessons     JSONB NOT NULL DEFAULT '[]',
  added_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	return errors.Wrap(err, "初始化 courses 表失败")
}

// Upsert 写入课程元数据
func (s *PgStore) Upsert(ctx context.Context, course *Course) error {
	if course == nil || course.Title == "" {
		return errors.Wrap(errors.ErrInvalidArg, "课程标题不能为空")
	}
	lessonsJSON, err := json.Marshal(course.Lessons)
	if err != nil {
		return err
	}
	addedAt := course.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now()
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO courses (title, course_link, instructor, lessons, added_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (title) DO UPDATE
SET course_link = EXCLUDED.course_link, instructor = EXCLUDED.instructor, lessons = EXCLUDED.lessons`,
		course.Title, course.Link, course.Instructor, lessonsJSON, addedAt,
	)
	return err
}

// Get 根据课程标题获取元数据
func (s *PgStore) Get(ctx context.Context, title string) (*Course, error) {
	course := &Course{}
	var lessonsJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT title, course_link, instructor, lessons, added_at FROM courses WHERE title = $1`,
		title,
	).Scan(&course.Title, &course.Link, &course.Instructor, &lessonsJSON, &course.AddedAt)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errors.ErrNotFound, "课程 %s 不存在", title)
		}
		return nil, err
	}
	if len(lessonsJSON) > 0 {
		if err := json.Unmarshal(lessonsJSON, &course.Lessons); err != nil {
			return nil, err
		}
	}
	return course, nil
}

// Exists 判断课程是否已入库
func (s *PgStore) Exists(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM courses WHERE title = $1)`, title,
	).Scan(&exists)
	return exists, err
}

// List 列出全部课程元数据，按标题排序
func (s *PgStore) List(ctx context.Context) ([]*Course, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT title, course_link, instructor, lessons, added_at FROM courses ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Course
	for rows.Next() {
		course := &Course{}
		var lessonsJSON []byte
		if err := rows.Scan(&course.Title, &course.Link, &course.Instructor, &lessonsJSON, &course.AddedAt); err != nil {
			return nil, err
		}
		if len(lessonsJSON) > 0 {
			if err := json.Unmarshal(lessonsJSON, &course.Lessons); err != nil {
				return nil, err
			}
		}
		out = append(out, course)
	}
	return out, rows.Err()
}

// ListTitles 列出全部课程标题
func (s *PgStore) ListTitles(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT title FROM courses ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// Count 统计课程数量
func (s *PgStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM courses`).Scan(&count)
	return count, err
}

// Delete 根据标题删除课程元数据
func (s *PgStore) Delete(ctx context.Context, title string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM courses WHERE title = $1`, title)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errors.ErrNotFound, "课程 %s 不存在", title)
	}
	return nil
}

// Close 关闭存储连接
func (s *PgStore) Close() error {
	s.pool.Close()
	return nil
}
