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

package app

import (
	"context"
	"fmt"

	"course-assistant/internal/orchestrator"
	"course-assistant/internal/pipeline/query"
	"course-assistant/internal/runtime/session"
	"course-assistant/internal/storage/metadata"
	"course-assistant/internal/tool"
	"course-assistant/internal/tool/builtin"
	"course-assistant/pkg/log"
)

// QueryResult 一次问答的结果
type QueryResult struct {
	Answer    string
	Sources   []tool.Source
	SessionID string
}

// CourseAnalytics 课程库统计
type CourseAnalytics struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

// Assistant 问答服务：会话管理 + 工具注册 + 编排器调用。
// 每次请求使用独立的工具 Registry，来源归集不跨请求串扰。
type Assistant struct {
	orch          *orchestrator.Orchestrator
	searcher      *query.Searcher
	metadataStore metadata.Store
	sessions      *session.Manager
	logger        *log.Logger
}

// NewAssistant 创建问答服务
func NewAssistant(orch *orchestrator.Orchestrator, searcher *query.Searcher, metadataStore metadata.Store, sessions *session.Manager, logger *log.Logger) (*Assistant, error) {
	if orch == nil {
		return nil, fmt.Errorf("Assistant 需要编排器")
	}
	if searcher == nil {
		return nil, fmt.Errorf("Assistant 需要 Searcher")
	}
	if metadataStore == nil {
		return nil, fmt.Errorf("Assistant 需要元数据存储")
	}
	if sessions == nil {
		return nil, fmt.Errorf("Assistant 需要会话管理器")
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Assistant{
		orch:          orch,
		searcher:      searcher,
		metadataStore: metadataStore,
		sessions:      sessions,
		logger:        logger,
	}, nil
}

// Query 回答一个问题。sessionID 为空或不存在时创建新会话，
// 结果里的 SessionID 总是有效，前端下一轮带回即可续接上下文。
func (a *Assistant) Query(ctx context.Context, queryText, sessionID string) (*QueryResult, error) {
	if queryText == "" {
		return nil, fmt.Errorf("query 不能为空")
	}

	sess, err := a.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("获取会话failed: %w", err)
	}
	history := a.sessions.History(sess)

	registry := tool.NewRegistry()
	if err := registry.Register(builtin.NewCourseSearchTool(a.searcher)); err != nil {
		return nil, err
	}
	if err := registry.Register(builtin.NewCourseOutlineTool(a.searcher, a.metadataStore)); err != nil {
		return nil, err
	}

	answer := a.orch.Respond(ctx, queryText, history, registry.Definitions(), registry)
	sources := registry.AllSources()

	sess.AddExchange(queryText, answer)
	if err := a.sessions.Save(ctx, sess); err != nil {
		// 会话保存失败不影响本轮答案，下一轮会丢失上下文
		a.logger.Warn("保存会话失败", "session_id", sess.ID, "error", err)
	}

	return &QueryResult{
		Answer:    answer,
		Sources:   sources,
		SessionID: sess.ID,
	}, nil
}

// Analytics 返回课程库统计（课程总数与标题列表）
func (a *Assistant) Analytics(ctx context.Context) (*CourseAnalytics, error) {
	count, err := a.metadataStore.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计课程数failed: %w", err)
	}
	titles, err := a.metadataStore.ListTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("列出课程标题failed: %w", err)
	}
	return &CourseAnalytics{
		TotalCourses: count,
		CourseTitles: titles,
	}, nil
}
