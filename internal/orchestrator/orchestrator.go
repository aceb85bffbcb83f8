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

// Package orchestrator 驱动与 completion 服务的多轮工具调用对话。
//
// 单次 Respond 调用内一切都是同步顺序执行：completion 调用之间、
// 同一轮内的工具调用之间都不并发。并发的 Respond 调用各自持有
// 独立的对话与轮次状态，工具注册表按每请求一个实例使用。
// 传输失败不重试，走降级路径。
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"course-assistant/internal/model/llm"
	"course-assistant/internal/tool"
	"course-assistant/pkg/errors"
	"course-assistant/pkg/log"
	"course-assistant/pkg/metrics"
)

// CompletionClient 编排器对 completion 服务的最小依赖
type CompletionClient interface {
	CreateMessage(ctx context.Context, req *llm.MessageRequest) (*llm.MessageResponse, error)
}

// 工具循环内驱动阶段：executingTools -> awaitingFollowup -> ... -> roundLimit。
// 首次请求与直接回答在 Respond 里处理，不进循环。
type state int

const (
	stateExecutingTools state = iota
	stateAwaitingFollowup
	stateRoundLimit
)

// 降级总结最多拼接的工具结果条数（控制长度，可调）
const summaryResultLimit = 3

const (
	defaultMaxRounds            = 2
	defaultMaxConversationChars = 15000
	defaultMaxTokens            = 800
)

// Config 编排器配置
type Config struct {
	Model                string  // 为空用客户端默认
	MaxTokens            int     // 单次响应 token 上限
	Temperature          float64 // 问答保持确定性，默认 0
	MaxRounds            int     // 模型可发起的工具轮数上限
	MaxConversationChars int     // 对话序列化长度安全阈值
}

// Orchestrator 工具调用编排器
type Orchestrator struct {
	client CompletionClient
	cfg    Config
	logger *log.Logger
}

// New 创建编排器
func New(client CompletionClient, cfg Config, logger *log.Logger) (*Orchestrator, error) {
	if client == nil {
		return nil, errors.Wrap(errors.ErrInvalidArg, "编排器需要 completion 客户端")
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = defaultMaxRounds
	}
	if cfg.MaxConversationChars <= 0 {
		cfg.MaxConversationChars = defaultMaxConversationChars
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Orchestrator{client: client, cfg: cfg, logger: logger}, nil
}

// Respond 回答一个问题。history 为上一轮对话的格式化文本，可为空；
// defs 为空表示本次不公告工具；registry 为 nil 时即使模型请求工具也直接返回文本。
// 运行期的一切失败都降级为面向用户的文本，不向调用方抛错。
func (o *Orchestrator) Respond(ctx context.Context, queryText, history string, defs []tool.Definition, registry *tool.Registry) string {
	system := systemPrompt
	if history != "" {
		system = fmt.Sprintf("%s\n\nPrevious conversation:\n%s", systemPrompt, history)
	}

	toolDefs := toLLMTools(defs)

	first := &llm.MessageRequest{
		Model:       o.cfg.Model,
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
		System:      system,
		Messages:    []llm.MessageParam{llm.UserText(queryText)},
	}
	if len(toolDefs) > 0 {
		first.Tools = toolDefs
		first.ToolChoice = llm.ToolChoiceAuto
	}

	resp, err := o.client.CreateMessage(ctx, first)
	if err != nil {
		o.logger.Warn("首次 completion 调用失败", "error", err)
		metrics.QueryTotal.WithLabelValues("fallback").Inc()
		return fmt.Sprintf("I encountered an error while searching: %v. Please try rephrasing your question.", err)
	}

	if resp.StopReason != llm.StopToolUse || registry == nil {
		metrics.QueryTotal.WithLabelValues("direct").Inc()
		metrics.QueryRounds.Observe(0)
		return resp.FirstText()
	}

	return o.runToolLoop(ctx, system, queryText, toolDefs, registry, resp)
}

// loopState 一次编排调用的可变状态
type loopState struct {
	messages  []llm.MessageParam
	collected []string // 成功的工具结果文本，降级总结用
	rounds    int
}

// runToolLoop 驱动工具轮次直到模型给出最终回答或触发降级。
// 轮数耗尽后的最后一次续谈本身就是强制收尾调用，
// 所以归属于工具循环的 completion 调用不会超过 MaxRounds+1 次。
func (o *Orchestrator) runToolLoop(ctx context.Context, system, queryText string, toolDefs []llm.ToolDefinition, registry *tool.Registry, resp *llm.MessageResponse) string {
	st := &loopState{
		messages: []llm.MessageParam{
			llm.UserText(queryText),
			{Role: llm.RoleAssistant, Content: resp.Content},
		},
	}
	current := resp
	phase := stateExecutingTools

	for {
		switch phase {
		case stateExecutingTools:
			// 对话规模安全检查：每轮一次，超限直接走降级总结，
			// 不再发出可能超大的请求
			if o.conversationSize(st.messages) > o.cfg.MaxConversationChars {
				o.logger.Warn("对话长度超过安全阈值，提前终止工具轮次", "rounds", st.rounds)
				return o.finish("fallback", st.rounds,
					"My search results grew too large to continue. Based on my searches: "+o.summarize(st.collected))
			}
			o.executeTools(ctx, registry, current, st)
			st.rounds++
			if st.rounds >= o.cfg.MaxRounds {
				phase = stateRoundLimit
			} else {
				phase = stateAwaitingFollowup
			}

		case stateAwaitingFollowup:
			// 续谈请求不带工具，迫使模型收敛
			next, err := o.createMessage(ctx, system, st.messages, nil)
			if err != nil {
				return o.transportFallback(err, st)
			}
			if next.StopReason != llm.StopToolUse {
				return o.finish("tool_rounds", st.rounds, next.FirstText())
			}
			// 允许模型追加恰好一轮：仅为这一次调用重新挂上工具
			retry, err := o.createMessage(ctx, system, st.messages, toolDefs)
			if err != nil {
				return o.transportFallback(err, st)
			}
			if retry.StopReason != llm.StopToolUse {
				return o.finish("tool_rounds", st.rounds, retry.FirstText())
			}
			st.messages = append(st.messages, llm.MessageParam{Role: llm.RoleAssistant, Content: retry.Content})
			current = retry
			phase = stateExecutingTools

		case stateRoundLimit:
			// 强制收尾：完整对话、不带工具
			final, err := o.createMessage(ctx, system, st.messages, nil)
			if err != nil {
				o.logger.Warn("强制收尾调用失败，使用降级总结", "error", err)
				return o.finish("fallback", st.rounds,
					"Reached maximum search rounds. Based on my searches: "+o.summarize(st.collected))
			}
			return o.finish("tool_rounds", st.rounds, final.FirstText())
		}
	}
}

// finish 记录指标并返回最终文本
func (o *Orchestrator) finish(outcome string, rounds int, text string) string {
	metrics.QueryTotal.WithLabelValues(outcome).Inc()
	metrics.QueryRounds.Observe(float64(rounds))
	return text
}

// executeTools 顺序执行一轮的全部 tool_use 块并把结果作为单个用户轮次追加。
// 同一轮内后面的调用可能依赖前面的调用已写入历史，所以不并发。
func (o *Orchestrator) executeTools(ctx context.Context, registry *tool.Registry, resp *llm.MessageResponse, st *loopState) {
	uses := resp.ToolUses()
	results := make([]llm.ContentBlock, 0, len(uses))
	for _, use := range uses {
		text, failed := registry.Execute(ctx, use.Name, use.Input)
		results = append(results, llm.ToolResultBlock(use.ID, text, failed))
		if !failed {
			st.collected = append(st.collected, text)
		}
	}
	if len(results) > 0 {
		st.messages = append(st.messages, llm.MessageParam{Role: llm.RoleUser, Content: results})
	}
}

func (o *Orchestrator) createMessage(ctx context.Context, system string, messages []llm.MessageParam, toolDefs []llm.ToolDefinition) (*llm.MessageResponse, error) {
	req := &llm.MessageRequest{
		Model:       o.cfg.Model,
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
		System:      system,
		Messages:    messages,
	}
	if len(toolDefs) > 0 {
		req.Tools = toolDefs
		req.ToolChoice = llm.ToolChoiceAuto
	}
	return o.client.CreateMessage(ctx, req)
}

// transportFallback 处理循环中段的传输失败：此时至少执行过一轮工具，
// 宁可给出部分结果的总结也不整体失败。首次请求的失败在 Respond 里单独处理。
func (o *Orchestrator) transportFallback(err error, st *loopState) string {
	o.logger.Warn("completion 调用失败", "rounds", st.rounds, "error", err)
	return o.finish("fallback", st.rounds,
		"I encountered an error during my search, but here's what I found: "+o.summarize(st.collected))
}

// summarize 确定性降级总结：取前几条成功的工具结果拼接
func (o *Orchestrator) summarize(collected []string) string {
	if len(collected) == 0 {
		return "No search results were successfully retrieved."
	}
	if len(collected) > summaryResultLimit {
		collected = collected[:summaryResultLimit]
	}
	return strings.Join(collected, " ")
}

// conversationSize 按序列化字符数估算对话规模
func (o *Orchestrator) conversationSize(messages []llm.MessageParam) int {
	total := 0
	for _, msg := range messages {
		if data, err := json.Marshal(msg.Content); err == nil {
			total += len(data)
		}
	}
	return total
}

func toLLMTools(defs []tool.Definition) []llm.ToolDefinition {
	if len(defs) == 0 {
		return nil
	}
	out := make([]llm.ToolDefinition, 0, len(defs))
	for _, def := range defs {
		out = append(out, llm.ToolDefinition{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}
	return out
}
