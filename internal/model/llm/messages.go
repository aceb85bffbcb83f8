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

package llm

// 消息角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// 停止原因（completion 服务的 stop_reason）
const (
	StopEndTurn = "end_turn"
	StopToolUse = "tool_use"
)

// 内容块类型
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// ContentBlock 消息内容块联合体：text / tool_use / tool_result
type ContentBlock struct {
	Type string `json:"type"`

	// text 块
	Text string `json:"text,omitempty"`

	// tool_use 块
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`

	// tool_result 块
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// TextBlock 构造文本内容块
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// ToolResultBlock 构造工具结果内容块
func ToolResultBlock(toolUseID, content string, isError bool) ContentBlock {
	return ContentBlock{Type: BlockToolResult, ToolUseID: toolUseID, Content: content, IsError: isError}
}

// MessageParam 单个对话轮次
type MessageParam struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// UserText 构造纯文本用户轮次
func UserText(text string) MessageParam {
	return MessageParam{Role: RoleUser, Content: []ContentBlock{TextBlock(text)}}
}

// ToolDefinition 向 completion 服务公告的工具定义
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"input_schema"`
}

// ToolChoiceAuto 由模型自行决定是否调用工具
var ToolChoiceAuto = map[string]any{"type": "auto"}

// MessageRequest Messages API 请求
type MessageRequest struct {
	Model       string           `json:"model"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature float64          `json:"temperature"`
	System      string           `json:"system,omitempty"`
	Messages    []MessageParam   `json:"messages"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	ToolChoice  map[string]any   `json:"tool_choice,omitempty"`
}

// MessageResponse Messages API 响应（只取编排需要的字段）
type MessageResponse struct {
	ID         string         `json:"id"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// FirstText 返回响应中首个 text 块的文本，没有则为空串
func (r *MessageResponse) FirstText() string {
	for _, block := range r.Content {
		if block.Type == BlockText {
			return block.Text
		}
	}
	return ""
}

// ToolUses 按模型给出的顺序返回所有 tool_use 块
func (r *MessageResponse) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range r.Content {
		if block.Type == BlockToolUse {
			uses = append(uses, block)
		}
	}
	return uses
}
