package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") == "" {
			t.Error("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestClaudeClient_CreateMessage(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, MessageResponse{
		ID:         "msg_1",
		Role:       RoleAssistant,
		StopReason: StopEndTurn,
		Content:    []ContentBlock{TextBlock("hello")},
	})
	defer srv.Close()

	c, err := NewClaudeClient(ClientOptions{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClaudeClient: %v", err)
	}

	resp, err := c.CreateMessage(context.Background(), &MessageRequest{
		MaxTokens: 100,
		Messages:  []MessageParam{UserText("hi")},
	})
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if resp.StopReason != StopEndTurn || resp.FirstText() != "hello" {
		t.Errorf("resp: %+v", resp)
	}
}

func TestClaudeClient_CreateMessage_ToolUse(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, MessageResponse{
		ID:         "msg_2",
		Role:       RoleAssistant,
		StopReason: StopToolUse,
		Content: []ContentBlock{
			{Type: BlockToolUse, ID: "toolu_1", Name: "search_course_content", Input: map[string]any{"query": "mcp"}},
		},
	})
	defer srv.Close()

	c, _ := NewClaudeClient(ClientOptions{APIKey: "sk-test", BaseURL: srv.URL})
	resp, err := c.CreateMessage(context.Background(), &MessageRequest{
		MaxTokens: 100,
		Messages:  []MessageParam{UserText("what is mcp")},
	})
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	uses := resp.ToolUses()
	if len(uses) != 1 || uses[0].Name != "search_course_content" || uses[0].ID != "toolu_1" {
		t.Errorf("ToolUses: %+v", uses)
	}
}

func TestClaudeClient_CreateMessage_APIError(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, map[string]any{
		"error": map[string]any{"type": "overloaded_error", "message": "overloaded"},
	})
	defer srv.Close()

	c, _ := NewClaudeClient(ClientOptions{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := c.CreateMessage(context.Background(), &MessageRequest{
		MaxTokens: 100,
		Messages:  []MessageParam{UserText("hi")},
	})
	if err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestNewClaudeClient_MissingKey(t *testing.T) {
	if _, err := NewClaudeClient(ClientOptions{}); err == nil {
		t.Error("expected error when APIKey is empty")
	}
}

func TestMessageResponse_FirstText(t *testing.T) {
	r := &MessageResponse{Content: []ContentBlock{
		{Type: BlockToolUse, ID: "t1", Name: "x"},
		TextBlock("answer"),
	}}
	if r.FirstText() != "answer" {
		t.Errorf("FirstText: %q", r.FirstText())
	}
	empty := &MessageResponse{}
	if empty.FirstText() != "" {
		t.Error("FirstText on empty content should be empty")
	}
}
