package builtin

import (
	"context"
	"strings"
	"testing"

	einoembed "github.com/cloudwego/eino/components/embedding"

	"course-assistant/internal/pipeline/query"
	"course-assistant/internal/storage/metadata"
	"course-assistant/internal/storage/vector"
)

type stubEmbedder struct{}

func (stubEmbedder) EmbedStrings(ctx context.Context, texts []string, _ ...einoembed.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0}
	}
	return out, nil
}

func newTestingSearcher(t *testing.T) (*query.Searcher, metadata.Store) {
	t.Helper()
	ctx := context.Background()
	store := vector.NewMemoryStore()
	if err := store.Create(ctx, &vector.Index{Name: "course_chunks", Dimension: 2}); err != nil {
		t.Fatalf("create index: %v", err)
	}
	err := store.Add(ctx, "course_chunks", []*vector.Vector{
		{ID: "c1", Values: []float64{1, 0}, Metadata: map[string]string{
			"content":       "Course Go Fundamentals Lesson 1 content: Goroutines are lightweight threads.",
			"course_title":  "Go Fundamentals",
			"lesson_number": "1",
			"lesson_link":   "https://example.com/go/1",
		}},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	retriever, err := query.NewMemoryRetriever(&query.MemoryRetrieverConfig{VectorStore: store, DefaultIndex: "course_chunks"})
	if err != nil {
		t.Fatalf("retriever: %v", err)
	}

	metaStore := metadata.NewMemoryStore()
	err = metaStore.Upsert(ctx, &metadata.Course{
		Title:      "Go Fundamentals",
		Link:       "https://example.com/go",
		Instructor: "Rob",
		Lessons: []metadata.Lesson{
			{Number: 1, Title: "Goroutines", Link: "https://example.com/go/1"},
			{Number: 2, Title: "Channels", Link: "https://example.com/go/2"},
		},
	})
	if err != nil {
		t.Fatalf("seed metadata: %v", err)
	}

	searcher, err := query.NewSearcher(&query.SearcherConfig{
		Chunks:        retriever,
		Embedder:      stubEmbedder{},
		MetadataStore: metaStore,
	})
	if err != nil {
		t.Fatalf("searcher: %v", err)
	}
	return searcher, metaStore
}

func TestSearchToolFormatsBlocksAndSources(t *testing.T) {
	searcher, _ := newTestingSearcher(t)
	st := NewCourseSearchTool(searcher)

	result, err := st.Execute(context.Background(), map[string]any{"query": "goroutines"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.HasPrefix(result.Content, "[Go Fundamentals - Lesson 1]\n") {
		t.Errorf("missing block header: %q", result.Content)
	}
	if len(result.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(result.Sources))
	}
	if result.Sources[0].Text != "Go Fundamentals - Lesson 1" {
		t.Errorf("unexpected source text: %q", result.Sources[0].Text)
	}
	if result.Sources[0].Link != "https://example.com/go/1" {
		t.Errorf("unexpected source link: %q", result.Sources[0].Link)
	}
}

func TestSearchToolEmptyResults(t *testing.T) {
	searcher, _ := newTestingSearcher(t)
	st := NewCourseSearchTool(searcher)

	lesson := 9
	result, err := st.Execute(context.Background(), map[string]any{
		"query":         "goroutines",
		"course_name":   "Go Fundamentals",
		"lesson_number": float64(lesson),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	want := "No relevant content found in course 'Go Fundamentals' in lesson 9."
	if result.Content != want {
		t.Errorf("got %q, want %q", result.Content, want)
	}
}

func TestSearchToolUnknownCourse(t *testing.T) {
	searcher, _ := newTestingSearcher(t)
	st := NewCourseSearchTool(searcher)

	result, err := st.Execute(context.Background(), map[string]any{
		"query":       "anything",
		"course_name": "Quantum Basket Weaving",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError for unknown course")
	}
	if result.Content != "No course found matching 'Quantum Basket Weaving'" {
		t.Errorf("unexpected content: %q", result.Content)
	}
}

func TestSearchToolMissingQuery(t *testing.T) {
	searcher, _ := newTestingSearcher(t)
	st := NewCourseSearchTool(searcher)
	if _, err := st.Execute(context.Background(), map[string]any{}); err == nil {
		t.Fatal("expected error for missing query")
	}
}

func TestOutlineTool(t *testing.T) {
	searcher, metaStore := newTestingSearcher(t)
	ot := NewCourseOutlineTool(searcher, metaStore)

	result, err := ot.Execute(context.Background(), map[string]any{"course_name": "go"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	for _, want := range []string{
		"Course: Go Fundamentals",
		"Course Link: https://example.com/go",
		"Lessons (2):",
		"Lesson 1: Goroutines",
		"Lesson 2: Channels",
	} {
		if !strings.Contains(result.Content, want) {
			t.Errorf("outline missing %q:\n%s", want, result.Content)
		}
	}
	if len(result.Sources) != 1 || result.Sources[0].Text != "Go Fundamentals" {
		t.Errorf("unexpected sources: %+v", result.Sources)
	}
}

func TestOutlineToolUnknownCourse(t *testing.T) {
	searcher, metaStore := newTestingSearcher(t)
	ot := NewCourseOutlineTool(searcher, metaStore)

	result, err := ot.Execute(context.Background(), map[string]any{"course_name": "nonexistent"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError for unknown course")
	}
}
