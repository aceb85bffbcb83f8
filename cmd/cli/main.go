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

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"course-assistant/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}
	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "version":
		fmt.Println("course-assistant cli 0.1.0")
	case "health":
		if err := getHealth(); err != nil {
			fmt.Fprintf(os.Stderr, "health: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("ok")
	case "config":
		runConfig()
	case "server":
		if len(args) > 0 && args[0] == "start" {
			runServerStart()
		} else {
			fmt.Fprintf(os.Stderr, "Usage: courseqa server start\n")
			os.Exit(1)
		}
	case "courses":
		runCourses(os.Stdout)
	case "chat":
		runChat(os.Stdin, os.Stdout)
	case "ask":
		if len(args) < 1 {
			fmt.Fprintf(os.Stderr, "Usage: courseqa ask <question>\n")
			os.Exit(1)
		}
		runAsk(strings.Join(args, " "), os.Stdout)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: courseqa <command> [args]")
	fmt.Println("  version        - 显示版本")
	fmt.Println("  health         - 健康检查")
	fmt.Println("  config         - 显示配置概要")
	fmt.Println("  server start   - 启动 API 服务（go run ./cmd/api）")
	fmt.Println("  courses        - 列出已入库课程")
	fmt.Println("  ask <question> - 单次提问")
	fmt.Println("  chat           - 交互式问答（同一会话续接上下文）")
}

func runConfig() {
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("api.port=%d\n", cfg.API.Port)
	fmt.Printf("assistant.docs_path=%s\n", cfg.Assistant.DocsPath)
	fmt.Printf("storage.vector.type=%s\n", cfg.Storage.Vector.Type)
}

func runServerStart() {
	c := exec.Command("go", "run", "./cmd/api")
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Dir = "."
	if err := c.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "server start: %v\n", err)
		os.Exit(1)
	}
}

func runCourses(w io.Writer) {
	stats, err := getCourses()
	if err != nil {
		fmt.Fprintf(os.Stderr, "courses: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprint(w, formatCourses(stats))
}

func runAsk(question string, w io.Writer) {
	reply, err := postQuery(question, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ask: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprint(w, formatReply(reply))
}

func runChat(in io.Reader, w io.Writer) {
	fmt.Fprintln(w, "输入问题开始对话，exit 退出")
	sessionID := ""
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		reply, err := postQuery(line, sessionID)
		if err != nil {
			fmt.Fprintf(w, "请求失败: %v\n", err)
			continue
		}
		sessionID = reply.SessionID
		fmt.Fprint(w, formatReply(reply))
	}
}

// formatReply 渲染答案与来源列表
func formatReply(reply *queryReply) string {
	var sb strings.Builder
	sb.WriteString(reply.Answer)
	sb.WriteString("\n")
	if len(reply.Sources) > 0 {
		sb.WriteString("来源:\n")
		for _, s := range reply.Sources {
			sb.WriteString("  - ")
			sb.WriteString(s.Text)
			if s.Link != "" {
				sb.WriteString(" (")
				sb.WriteString(s.Link)
				sb.WriteString(")")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// formatCourses 渲染课程库统计
func formatCourses(stats *courseStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "共 %d 门课程\n", stats.TotalCourses)
	for _, title := range stats.CourseTitles {
		sb.WriteString("  - ")
		sb.WriteString(title)
		sb.WriteString("\n")
	}
	return sb.String()
}
