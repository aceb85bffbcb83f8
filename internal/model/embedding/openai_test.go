package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newEmbeddingServer(t *testing.T, embeddings map[int][]float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("missing Authorization header")
		}
		type item struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		data := make([]item, 0, len(embeddings))
		for idx, emb := range embeddings {
			data = append(data, item{Index: idx, Embedding: emb})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
}

func TestOpenAIAdapter_Embed(t *testing.T) {
	srv := newEmbeddingServer(t, map[int][]float64{
		0: {1, 0, 0},
		1: {0, 1, 0},
	})
	defer srv.Close()

	a, err := NewOpenAIAdapter(Options{APIKey: "sk-test", BaseURL: srv.URL, Dimension: 3})
	if err != nil {
		t.Fatalf("NewOpenAIAdapter: %v", err)
	}

	out, err := a.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(out))
	}
	if out[0][0] != 1 || out[1][1] != 1 {
		t.Errorf("vectors out of order: %v", out)
	}
}

func TestOpenAIAdapter_Embed_CountMismatch(t *testing.T) {
	srv := newEmbeddingServer(t, map[int][]float64{0: {1, 0, 0}})
	defer srv.Close()

	a, _ := NewOpenAIAdapter(Options{APIKey: "sk-test", BaseURL: srv.URL, Dimension: 3})
	if _, err := a.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error when response count differs from input count")
	}
}

func TestOpenAIAdapter_Embed_Empty(t *testing.T) {
	a, _ := NewOpenAIAdapter(Options{APIKey: "sk-test", Dimension: 3})
	out, err := a.Embed(context.Background(), nil)
	if err != nil || out != nil {
		t.Errorf("empty input: out=%v err=%v", out, err)
	}
}
