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

package http

import (
	"bytes"
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	appsvc "course-assistant/internal/app"
	"course-assistant/pkg/metrics"
)

// Handler HTTP 处理器，仅依赖 Assistant
type Handler struct {
	assistant *appsvc.Assistant
}

// NewHandler 创建 HTTP 处理器
func NewHandler(assistant *appsvc.Assistant) *Handler {
	return &Handler{assistant: assistant}
}

// queryRequest POST /api/query 请求体
type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

// sourceItem 答案引用的课程来源
type sourceItem struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// queryResponse POST /api/query 响应体
type queryResponse struct {
	Answer    string       `json:"answer"`
	Sources   []sourceItem `json:"sources"`
	SessionID string       `json:"session_id"`
}

// Query 问答接口
// POST /api/query
func (h *Handler) Query(c context.Context, ctx *app.RequestContext) {
	var req queryRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
		return
	}
	if req.Query == "" {
		ctx.JSON(consts.StatusBadRequest, map[string]string{
			"error": "query is required",
		})
		return
	}

	start := time.Now()
	result, err := h.assistant.Query(c, req.Query, req.SessionID)
	metrics.QueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		hlog.CtxErrorf(c, "query failed: %v", err)
		ctx.JSON(consts.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}

	sources := make([]sourceItem, 0, len(result.Sources))
	for _, s := range result.Sources {
		sources = append(sources, sourceItem{Text: s.Text, Link: s.Link})
	}
	ctx.JSON(consts.StatusOK, queryResponse{
		Answer:    result.Answer,
		Sources:   sources,
		SessionID: result.SessionID,
	})
}

// coursesResponse GET /api/courses 响应体
type coursesResponse struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

// Courses 课程库统计接口
// GET /api/courses
func (h *Handler) Courses(c context.Context, ctx *app.RequestContext) {
	stats, err := h.assistant.Analytics(c)
	if err != nil {
		hlog.CtxErrorf(c, "course analytics failed: %v", err)
		ctx.JSON(consts.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}
	titles := stats.CourseTitles
	if titles == nil {
		titles = []string{}
	}
	ctx.JSON(consts.StatusOK, coursesResponse{
		TotalCourses: stats.TotalCourses,
		CourseTitles: titles,
	})
}

// HealthCheck 健康检查接口
// GET /api/health
func (h *Handler) HealthCheck(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Metrics Prometheus 指标导出接口
// GET /metrics
func (h *Handler) Metrics(c context.Context, ctx *app.RequestContext) {
	var buf bytes.Buffer
	if err := metrics.WritePrometheus(&buf); err != nil {
		ctx.JSON(consts.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}
	ctx.Data(consts.StatusOK, "text/plain; version=0.0.4; charset=utf-8", buf.Bytes())
}
