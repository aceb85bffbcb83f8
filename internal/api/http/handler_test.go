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
	"encoding/json"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"

	"course-assistant/internal/api/http/middleware"
	appsvc "course-assistant/internal/app"
	"course-assistant/internal/einoext"
	"course-assistant/internal/model/llm"
	"course-assistant/internal/orchestrator"
	"course-assistant/internal/pipeline/query"
	"course-assistant/internal/runtime/session"
	"course-assistant/internal/storage/metadata"
	"course-assistant/internal/storage/vector"
	"course-assistant/pkg/config"
	"course-assistant/pkg/log"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}

func (stubEmbedder) Dimension() int { return 3 }
func (stubEmbedder) Model() string  { return "stub" }

type fixedCompletion struct {
	answer string
}

func (f *fixedCompletion) CreateMessage(ctx context.Context, req *llm.MessageRequest) (*llm.MessageResponse, error) {
	return &llm.MessageResponse{
		Role:       llm.RoleAssistant,
		Content:    []llm.ContentBlock{llm.TextBlock(f.answer)},
		StopReason: llm.StopEndTurn,
	}, nil
}

// newTestEngine 构造全内存依赖的 Hertz 测试引擎
func newTestEngine(t *testing.T, answer string) *server.Hertz {
	t.Helper()
	ctx := context.Background()

	store := vector.NewMemoryStore()
	if err := vector.EnsureIndex(ctx, store, "course_chunks", 3); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	embedder, err := einoext.NewEmbedderAdapter(stubEmbedder{})
	if err != nil {
		t.Fatalf("NewEmbedderAdapter: %v", err)
	}
	chunksRet, err := einoext.NewRetriever(ctx, config.VectorConfig{Type: "memory", Collection: "course_chunks"}, store, embedder, 5, 0)
	if err != nil {
		t.Fatalf("NewRetriever: %v", err)
	}

	metaStore := metadata.NewMemoryStore()
	if err := metaStore.Upsert(ctx, &metadata.Course{Title: "Go Fundamentals"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	searcher, err := query.NewSearcher(&query.SearcherConfig{
		Chunks:        chunksRet,
		Embedder:      embedder,
		MetadataStore: metaStore,
		TopK:          5,
	})
	if err != nil {
		t.Fatalf("NewSearcher: %v", err)
	}

	orch, err := orchestrator.New(&fixedCompletion{answer: answer}, orchestrator.Config{}, log.Discard())
	if err != nil {
		t.Fatalf("orchestrator.New: %v", err)
	}
	sessions := session.NewManager(session.NewMemoryStore(), 2)
	assistant, err := appsvc.NewAssistant(orch, searcher, metaStore, sessions, log.Discard())
	if err != nil {
		t.Fatalf("NewAssistant: %v", err)
	}

	handler := NewHandler(assistant)
	router := NewRouter(handler, middleware.NewMiddleware(nil), true)
	return router.Build(":0")
}

func TestHealthCheck(t *testing.T) {
	h := newTestEngine(t, "unused")
	w := ut.PerformRequest(h.Engine, "GET", "/api/health", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	resp := w.Result()
	if resp.StatusCode() != 200 {
		t.Errorf("HealthCheck status: got %d", resp.StatusCode())
	}
	if !bytes.Contains(resp.Body(), []byte("ok")) {
		t.Errorf("HealthCheck body: %s", resp.Body())
	}
}

func TestQueryEndpoint(t *testing.T) {
	h := newTestEngine(t, "Go is a programming language.")
	body := []byte(`{"query":"What is Go?"}`)
	w := ut.PerformRequest(h.Engine, "POST", "/api/query",
		&ut.Body{Body: bytes.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	resp := w.Result()
	if resp.StatusCode() != 200 {
		t.Fatalf("Query status: got %d, body %s", resp.StatusCode(), resp.Body())
	}
	var out queryResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Answer != "Go is a programming language." {
		t.Errorf("answer: got %q", out.Answer)
	}
	if out.SessionID == "" {
		t.Error("session_id 应为非空")
	}
	if out.Sources == nil {
		t.Error("sources 应序列化为数组而非 null")
	}
}

func TestQueryEndpointMissingQuery(t *testing.T) {
	h := newTestEngine(t, "unused")
	body := []byte(`{}`)
	w := ut.PerformRequest(h.Engine, "POST", "/api/query",
		&ut.Body{Body: bytes.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	resp := w.Result()
	if resp.StatusCode() != 400 {
		t.Errorf("missing query status: got %d, want 400", resp.StatusCode())
	}
	if !bytes.Contains(resp.Body(), []byte("query is required")) {
		t.Errorf("missing query body: %s", resp.Body())
	}
}

func TestCoursesEndpoint(t *testing.T) {
	h := newTestEngine(t, "unused")
	w := ut.PerformRequest(h.Engine, "GET", "/api/courses", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	resp := w.Result()
	if resp.StatusCode() != 200 {
		t.Fatalf("Courses status: got %d", resp.StatusCode())
	}
	var out coursesResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.TotalCourses != 1 {
		t.Errorf("total_courses: got %d, want 1", out.TotalCourses)
	}
	if len(out.CourseTitles) != 1 || out.CourseTitles[0] != "Go Fundamentals" {
		t.Errorf("course_titles: got %v", out.CourseTitles)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestEngine(t, "unused")
	w := ut.PerformRequest(h.Engine, "GET", "/metrics", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	resp := w.Result()
	if resp.StatusCode() != 200 {
		t.Errorf("Metrics status: got %d", resp.StatusCode())
	}
	if !bytes.Contains(resp.Body(), []byte("courseqa_")) {
		t.Errorf("Metrics body 缺少指标前缀: %.200s", resp.Body())
	}
}
