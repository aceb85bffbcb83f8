package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
api:
  port: 8080
  host: "0.0.0.0"
assistant:
  max_tool_rounds: 2
  max_conversation_chars: 15000
  docs_path: "./docs"
model:
  llm:
    providers:
      claude:
        api_key: "${TEST_ANTHROPIC_KEY}"
        models:
          default:
            name: "claude-3-5-sonnet-20241022"
            max_tokens: 800
  defaults:
    llm: "claude"
storage:
  vector:
    type: "memory"
    collection: "course_content"
    catalog: "course_catalog"
session:
  type: "memory"
log:
  level: "debug"
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d", cfg.API.Port)
	}
	if cfg.Assistant.MaxToolRounds != 2 || cfg.Assistant.MaxConversationChars != 15000 {
		t.Errorf("Assistant: %+v", cfg.Assistant)
	}
	if cfg.Storage.Vector.Collection != "course_content" || cfg.Storage.Vector.Catalog != "course_catalog" {
		t.Errorf("Vector: %+v", cfg.Storage.Vector)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadConfig_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_ANTHROPIC_KEY", "sk-test-123")
	path := writeTempConfig(t, sampleYAML)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	got := cfg.Model.LLM.Providers["claude"].APIKey
	if got != "sk-test-123" {
		t.Errorf("api_key env substitution: %q", got)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/api.yaml"); err == nil {
		t.Error("LoadConfig on missing file should error")
	}
}
