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

package tool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"course-assistant/pkg/errors"
	"course-assistant/pkg/metrics"
)

// CallRecord 一次工具调用的记录
type CallRecord struct {
	Tool  string
	Input map[string]any
	At    time.Time
}

// Registry 工具注册表。除了分发调用，还聚合本次会话的来源与调用历史，
// 供上层在回答结束后一次性取出。每个请求使用独立的 Registry 实例。
type Registry struct {
	mu      sync.Mutex
	tools   map[string]Tool
	order   []string
	sources []Source
	seen    map[string]bool
	history []CallRecord
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
		seen:  make(map[string]bool),
	}
}

// Register 注册工具；同名工具重复注册返回错误
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return errors.Wrap(errors.ErrInvalidArg, "工具不能为空")
	}
	name := t.Definition().Name
	if name == "" {
		return errors.Wrap(errors.ErrInvalidArg, "工具名不能为空")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; exists {
		return errors.Wrapf(errors.ErrDuplicate, "工具 %s 已注册", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Definitions 按注册顺序返回全部工具定义
func (r *Registry) Definitions() []Definition {
	r.mu.Lock()
	defer r.mu.Unlock()
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute 执行指定工具，返回文本结果和错误标志。
// 未注册的工具名与执行失败都转成文本回传，交给模型自行处理；
// 工具 panic 同样被捕获为错误文本，不让单次调用拖垮整个回答。
// isError 为 true 表示结果是失败描述，包括工具自身声明的业务失败。
func (r *Registry) Execute(ctx context.Context, name string, input map[string]any) (content string, isError bool) {
	r.mu.Lock()
	t, exists := r.tools[name]
	r.mu.Unlock()
	if !exists {
		metrics.ToolTotal.WithLabelValues(name, "not_found").Inc()
		return fmt.Sprintf("Tool '%s' not found", name), true
	}

	r.record(name, input)
	start := time.Now()
	defer func() {
		metrics.ToolDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if p := recover(); p != nil {
			metrics.ToolTotal.WithLabelValues(name, "error").Inc()
			content = fmt.Sprintf("Tool execution error: %v", p)
			isError = true
		}
	}()

	result, err := t.Execute(ctx, input)
	if err != nil {
		metrics.ToolTotal.WithLabelValues(name, "error").Inc()
		return fmt.Sprintf("Tool execution error: %v", err), true
	}
	metrics.ToolTotal.WithLabelValues(name, "ok").Inc()

	if len(result.Sources) > 0 {
		r.addSources(result.Sources)
	}
	return result.Content, result.IsError
}

// AllSources 返回去重后的来源，按首次出现顺序
func (r *Registry) AllSources() []Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// CallHistory 返回调用历史的副本
func (r *Registry) CallHistory() []CallRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CallRecord, len(r.history))
	copy(out, r.history)
	return out
}

// Reset 清空来源与调用历史，保留已注册工具
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = nil
	r.seen = make(map[string]bool)
	r.history = nil
}

func (r *Registry) record(name string, input map[string]any) {
	cp := make(map[string]any, len(input))
	for k, v := range input {
		cp[k] = v
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, CallRecord{Tool: name, Input: cp, At: time.Now()})
}

func (r *Registry) addSources(sources []Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range sources {
		key := s.Text + "\x00" + s.Link
		if r.seen[key] {
			continue
		}
		r.seen[key] = true
		r.sources = append(r.sources, s)
	}
}
