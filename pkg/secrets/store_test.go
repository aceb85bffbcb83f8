package secrets

import (
	"context"
	"testing"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Set(ctx, "anthropic_api_key", "sk-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := s.Get(ctx, "anthropic_api_key")
	if err != nil || v != "sk-1" {
		t.Fatalf("Get: v=%q err=%v", v, err)
	}
	if err := s.Delete(ctx, "anthropic_api_key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "anthropic_api_key"); err == nil {
		t.Error("Get after Delete should error")
	}
}

func TestEnvStore_Get(t *testing.T) {
	ctx := context.Background()
	t.Setenv("COURSEQA_TEST_SECRET", "v1")
	s := NewEnvStore()
	v, err := s.Get(ctx, "COURSEQA_TEST_SECRET")
	if err != nil || v != "v1" {
		t.Fatalf("Get: v=%q err=%v", v, err)
	}
	if _, err := s.Get(ctx, "COURSEQA_TEST_SECRET_MISSING"); err == nil {
		t.Error("Get missing env should error")
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Set(ctx, "llm_key", "sk-vault")

	v, err := Resolve(ctx, s, "vault:llm_key")
	if err != nil || v != "sk-vault" {
		t.Fatalf("Resolve vault ref: v=%q err=%v", v, err)
	}
	v, err = Resolve(ctx, s, "sk-inline")
	if err != nil || v != "sk-inline" {
		t.Fatalf("Resolve inline: v=%q err=%v", v, err)
	}
	v, err = Resolve(ctx, nil, "vault:llm_key")
	if err != nil || v != "vault:llm_key" {
		t.Fatalf("Resolve nil store: v=%q err=%v", v, err)
	}
}
