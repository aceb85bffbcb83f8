package metadata

import (
	"context"
	"testing"

	"course-assistant/pkg/errors"
)

func TestMemoryStoreUpsertAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	course := &Course{
		Title:      "Building RAG Applications",
		Link:       "https://example.com/rag",
		Instructor: "Jane Doe",
		Lessons: []Lesson{
			{Number: 0, Title: "Introduction", Link: "https://example.com/rag/0"},
			{Number: 1, Title: "Chunking", Link: "https://example.com/rag/1"},
		},
	}
	if err := s.Upsert(ctx, course); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := s.Get(ctx, "Building RAG Applications")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Instructor != "Jane Doe" {
		t.Errorf("unexpected instructor: %q", got.Instructor)
	}
	if len(got.Lessons) != 2 {
		t.Errorf("expected 2 lessons, got %d", len(got.Lessons))
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreUpsertOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Upsert(ctx, &Course{Title: "Go 101", Instructor: "A"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := s.Upsert(ctx, &Course{Title: "Go 101", Instructor: "B"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := s.Get(ctx, "Go 101")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Instructor != "B" {
		t.Errorf("expected overwrite, got instructor %q", got.Instructor)
	}
	count, _ := s.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 course, got %d", count)
	}
}

func TestMemoryStoreUpsertEmptyTitle(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Upsert(context.Background(), &Course{}); !errors.Is(err, errors.ErrInvalidArg) {
		t.Fatalf("expected ErrInvalidArg, got %v", err)
	}
}

func TestMemoryStoreListTitlesSorted(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, title := range []string{"Zig Basics", "Algorithms", "MLOps"} {
		if err := s.Upsert(ctx, &Course{Title: title}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}
	titles, err := s.ListTitles(ctx)
	if err != nil {
		t.Fatalf("ListTitles failed: %v", err)
	}
	want := []string{"Algorithms", "MLOps", "Zig Basics"}
	if len(titles) != len(want) {
		t.Fatalf("expected %d titles, got %d", len(want), len(titles))
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, titles[i], want[i])
		}
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Upsert(ctx, &Course{Title: "Go 101"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := s.Delete(ctx, "Go 101"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "Go 101"); !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	exists, _ := s.Exists(ctx, "Go 101")
	if exists {
		t.Error("course should not exist after delete")
	}
}
