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

// Package tool 定义助手可调用的工具抽象与注册表。
// 工具的输入 schema 直接按 Messages API 的 input_schema 形状声明。
package tool

import "context"

// Tool 助手可调用的工具
type Tool interface {
	// Definition 返回工具定义（名称、描述、输入 schema）
	Definition() Definition
	// Execute 执行工具；返回的 Result.Content 会作为 tool_result 回传给模型
	Execute(ctx context.Context, input map[string]any) (Result, error)
}

// Definition 工具定义
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"input_schema"`
}

// Schema 工具输入的 JSON Schema
type Schema struct {
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

// SchemaProperty 单个输入字段
type SchemaProperty struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Result 工具执行结果
type Result struct {
	Content string   // 回传给模型的文本
	Sources []Source // 展示给用户的来源条目
	IsError bool     // 内容是否为错误说明
}

// Source 检索来源（课程 + 课时，带可选链接）
type Source struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}
