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

package llm

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// LimitConfig 单个 Provider 的限流配置
type LimitConfig struct {
	RequestsPerMinute float64 // 每分钟请求数，<=0 使用默认
	MaxConcurrent     int     // 最大并发请求数，<=0 使用默认
}

// RateLimiter Provider 维度的限流器：RPS + 并发控制
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*providerLimiter
	defaults LimitConfig
}

type providerLimiter struct {
	requests  *rate.Limiter
	semaphore chan struct{}
}

// NewRateLimiter 创建限流器；configs 为 provider -> 配置，defaults 用于未配置的 provider
func NewRateLimiter(configs map[string]LimitConfig, defaults LimitConfig) *RateLimiter {
	if defaults.RequestsPerMinute <= 0 {
		defaults.RequestsPerMinute = 60
	}
	if defaults.MaxConcurrent <= 0 {
		defaults.MaxConcurrent = 8
	}
	l := &RateLimiter{
		limiters: make(map[string]*providerLimiter),
		defaults: defaults,
	}
	for provider, cfg := range configs {
		l.limiters[provider] = newProviderLimiter(cfg, defaults)
	}
	return l
}

func newProviderLimiter(cfg, defaults LimitConfig) *providerLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = defaults.RequestsPerMinute
	}
	maxConc := cfg.MaxConcurrent
	if maxConc <= 0 {
		maxConc = defaults.MaxConcurrent
	}
	return &providerLimiter{
		requests:  rate.NewLimiter(rate.Limit(rpm/60.0), maxConc),
		semaphore: make(chan struct{}, maxConc),
	}
}

// Acquire 等待配额并占用一个并发槽，返回释放函数
func (l *RateLimiter) Acquire(ctx context.Context, provider string) (func(), error) {
	pl := l.get(provider)

	select {
	case pl.semaphore <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := pl.requests.Wait(ctx); err != nil {
		<-pl.semaphore
		return nil, err
	}

	return func() { <-pl.semaphore }, nil
}

func (l *RateLimiter) get(provider string) *providerLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	pl, ok := l.limiters[provider]
	if !ok {
		pl = newProviderLimiter(l.defaults, l.defaults)
		l.limiters[provider] = pl
	}
	return pl
}
