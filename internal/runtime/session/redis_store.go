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

package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"course-assistant/pkg/errors"
)

const redisKeyPrefix = "courseqa:session:"

// RedisStore Redis 会话存储，JSON 序列化，可选 TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore 创建 Redis 会话存储；ttl 为 0 表示不过期
func NewRedisStore(ctx context.Context, opts *redis.Options, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "连接 Redis 失败")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Get 实现 Store
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.Wrapf(errors.ErrNotFound, "会话 %s 不存在", id)
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(err, "反序列化会话失败")
	}
	return &sess, nil
}

// Save 实现 Store
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return errors.Wrap(errors.ErrInvalidArg, "会话 ID 不能为空")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "序列化会话失败")
	}
	return s.client.Set(ctx, redisKeyPrefix+sess.ID, data, s.ttl).Err()
}

// Delete 实现 Store
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisKeyPrefix+id).Err()
}

// Close 实现 Store
func (s *RedisStore) Close() error {
	return s.client.Close()
}
