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
	"testing"

	"course-assistant/pkg/config"
	"course-assistant/pkg/secrets"
)

func TestParseDefaultKey(t *testing.T) {
	tests := []struct {
		key      string
		provider string
		modelKey string
		wantErr  bool
	}{
		{"claude.default", "claude", "default", false},
		{"openai.text_embedding_3_small", "openai", "text_embedding_3_small", false},
		{"claude", "", "", true},
		{"", "", "", true},
		{".default", "", "", true},
		{"claude.", "", "", true},
	}
	for _, tt := range tests {
		provider, modelKey, err := parseDefaultKey(tt.key)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDefaultKey(%q): 应报错", tt.key)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDefaultKey(%q): %v", tt.key, err)
			continue
		}
		if provider != tt.provider || modelKey != tt.modelKey {
			t.Errorf("parseDefaultKey(%q) = %q, %q", tt.key, provider, modelKey)
		}
	}
}

// 多个模型并存时按 defaults 的 model_key 精确选择，不受 map 遍历顺序影响
func TestLLMClientFromConfigKeyedSelection(t *testing.T) {
	cfg := &config.Config{}
	cfg.Model.Defaults.LLM = "claude.haiku"
	cfg.Model.LLM.Providers = map[string]config.ProviderConfig{
		"claude": {
			APIKey: "sk-test",
			Models: map[string]config.ModelInfo{
				"default": {Name: "claude-sonnet-4-20250514", MaxTokens: 800},
				"haiku":   {Name: "claude-haiku-3-5", MaxTokens: 400, Temperature: 0.2},
			},
		},
	}

	for i := 0; i < 10; i++ {
		client, mi, err := newLLMClientFromConfig(context.Background(), cfg, secrets.NewMemoryStore())
		if err != nil {
			t.Fatalf("newLLMClientFromConfig: %v", err)
		}
		if client.Model() != "claude-haiku-3-5" {
			t.Fatalf("model: got %q, want claude-haiku-3-5", client.Model())
		}
		if mi.MaxTokens != 400 || mi.Temperature != 0.2 {
			t.Fatalf("model info: %+v", mi)
		}
	}
}

func TestLLMClientFromConfigUnknownModelKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Model.Defaults.LLM = "claude.missing"
	cfg.Model.LLM.Providers = map[string]config.ProviderConfig{
		"claude": {
			APIKey: "sk-test",
			Models: map[string]config.ModelInfo{
				"default": {Name: "claude-sonnet-4-20250514"},
			},
		},
	}
	if _, _, err := newLLMClientFromConfig(context.Background(), cfg, secrets.NewMemoryStore()); err == nil {
		t.Fatal("未配置的 model_key 应报错")
	}
}
