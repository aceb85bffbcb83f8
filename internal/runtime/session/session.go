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

// Package session 维护问答会话与对话历史。
// 历史以纯文本形式注入指令上下文，不参与编排循环内部的消息序列。
package session

import (
	"fmt"
	"strings"
	"time"
)

// Message 会话内的一条消息
type Message struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}

// Session 一个问答会话
type Session struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession 创建空会话
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

// AddExchange 追加一次问答往返
func (s *Session) AddExchange(userMessage, assistantMessage string) {
	s.Messages = append(s.Messages,
		Message{Role: "user", Content: userMessage},
		Message{Role: "assistant", Content: assistantMessage},
	)
	s.UpdatedAt = time.Now()
}

// FormatHistory 将最近 maxTurns 次往返格式化为
// "User: ...\nAssistant: ..." 文本；没有历史时返回空串
func (s *Session) FormatHistory(maxTurns int) string {
	if len(s.Messages) == 0 || maxTurns <= 0 {
		return ""
	}
	// 每次往返两条消息
	keep := maxTurns * 2
	messages := s.Messages
	if len(messages) > keep {
		messages = messages[len(messages)-keep:]
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		role := "User"
		if m.Role == "assistant" {
			role = "Assistant"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, m.Content))
	}
	return strings.Join(lines, "\n")
}
