package session

import (
	"context"
	"strings"
	"testing"
)

func TestFormatHistoryEmpty(t *testing.T) {
	s := NewSession("s1")
	if got := s.FormatHistory(2); got != "" {
		t.Errorf("expected empty history, got %q", got)
	}
}

func TestFormatHistory(t *testing.T) {
	s := NewSession("s1")
	s.AddExchange("What is Go?", "A programming language.")

	got := s.FormatHistory(2)
	want := "User: What is Go?\nAssistant: A programming language."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatHistoryTruncatesToRecentTurns(t *testing.T) {
	s := NewSession("s1")
	s.AddExchange("q1", "a1")
	s.AddExchange("q2", "a2")
	s.AddExchange("q3", "a3")

	got := s.FormatHistory(2)
	if strings.Contains(got, "q1") {
		t.Errorf("oldest exchange should be dropped: %q", got)
	}
	for _, want := range []string{"User: q2", "Assistant: a2", "User: q3", "Assistant: a3"} {
		if !strings.Contains(got, want) {
			t.Errorf("history missing %q: %q", want, got)
		}
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := NewSession("s1")
	sess.AddExchange("q", "a")
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(got.Messages))
	}

	// 返回的是副本，外部追加不应影响存储
	got.AddExchange("q2", "a2")
	again, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(again.Messages) != 2 {
		t.Errorf("store should be isolated from caller mutation, got %d messages", len(again.Messages))
	}
}

func TestManagerGetOrCreate(t *testing.T) {
	m := NewManager(NewMemoryStore(), 2)
	ctx := context.Background()

	created, err := m.GetOrCreate(ctx, "")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated session ID")
	}

	same, err := m.GetOrCreate(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if same.ID != created.ID {
		t.Errorf("expected existing session, got %q", same.ID)
	}

	fresh, err := m.GetOrCreate(ctx, "missing-id")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if fresh.ID == "missing-id" {
		t.Error("unknown ID should produce a new session")
	}
}
