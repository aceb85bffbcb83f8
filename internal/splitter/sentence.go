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

// Package splitter 提供课程文本切片器。课程讲稿按句子边界切片，
// 保证每个 chunk 是完整句子的拼接，块间保留字符级重叠。
package splitter

import (
	"regexp"
	"strings"
)

// Chunk 切片结果
type Chunk struct {
	Text  string // 切片文本
	Index int    // 在文档内的序号
}

// SentenceSplitter 句子切片器
type SentenceSplitter struct {
	name         string
	chunkSize    int // 单个 chunk 最大字符数
	chunkOverlap int // 相邻 chunk 的重叠字符数
}

// 句尾标点后跟空白视为句子边界；缩写（如 "Dr."）不单独处理
var sentenceBoundary = regexp.MustCompile(`(?:[.!?])\s+`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NewSentenceSplitter 创建句子切片器；size/overlap 非法时使用 800/100
func NewSentenceSplitter(chunkSize, chunkOverlap int) *SentenceSplitter {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 100
	}
	return &SentenceSplitter{
		name:         "sentence_splitter",
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Name 返回切片器名称
func (s *SentenceSplitter) Name() string {
	return s.name
}

// Split 执行句子切片
func (s *SentenceSplitter) Split(content string) []Chunk {
	sentences := s.splitSentences(content)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []Chunk
	i := 0
	for i < len(sentences) {
		var current []string
		size := 0
		j := i
		for ; j < len(sentences); j++ {
			next := size + len(sentences[j])
			if len(current) > 0 {
				next++ // 拼接时的空格
			}
			if next > s.chunkSize && len(current) > 0 {
				break
			}
			current = append(current, sentences[j])
			size = next
		}

		chunks = append(chunks, Chunk{
			Text:  strings.Join(current, " "),
			Index: len(chunks),
		})

		if j >= len(sentences) {
			break
		}

		// 回退若干句子作为重叠，至少前进一句避免死循环
		i = s.advance(sentences, i, j)
	}
	return chunks
}

// splitSentences 归一空白后按句尾标点切句
func (s *SentenceSplitter) splitSentences(content string) []string {
	normalized := whitespaceRun.ReplaceAllString(strings.TrimSpace(content), " ")
	if normalized == "" {
		return nil
	}

	// 保留句尾标点：按边界的位置切，而不是直接 Split 丢掉分隔符
	var sentences []string
	last := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(normalized, -1) {
		// loc[0] 是标点位置，标点本身属于前一句
		sentence := strings.TrimSpace(normalized[last : loc[0]+1])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(normalized[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// advance 计算下一 chunk 的起始句：从 j 往回保留不超过 overlap 字符的句子
func (s *SentenceSplitter) advance(sentences []string, start, end int) int {
	overlap := 0
	next := end
	for next > start+1 {
		candidate := len(sentences[next-1])
		if overlap > 0 {
			candidate++
		}
		if overlap+candidate > s.chunkOverlap {
			break
		}
		overlap += candidate
		next--
	}
	if next <= start {
		next = start + 1
	}
	return next
}
