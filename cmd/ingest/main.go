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
	"context"
	"flag"
	"fmt"
	stdlog "log"

	"course-assistant/internal/app"
	"course-assistant/pkg/config"
	"course-assistant/pkg/log"
)

func main() {
	var dir string
	flag.StringVar(&dir, "dir", "", "课程文档目录（默认取配置 assistant.docs_path）")
	flag.Parse()

	cfg, err := config.LoadAPIConfigWithModel()
	if err != nil {
		stdlog.Fatalf("加载配置失败: %v", err)
	}
	if dir == "" {
		dir = cfg.Assistant.DocsPath
	}
	if dir == "" {
		stdlog.Fatal("请用 -dir 指定课程文档目录，或在配置中设置 assistant.docs_path")
	}

	logger, err := log.NewLogger(&log.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		stdlog.Fatalf("初始化日志失败: %v", err)
	}

	ctx := context.Background()
	bootstrap, err := app.NewBootstrap(ctx, cfg, logger)
	if err != nil {
		stdlog.Fatalf("初始化失败: %v", err)
	}
	defer func() {
		_ = bootstrap.Close()
	}()

	result, err := bootstrap.Loader.LoadFolder(ctx, dir)
	if err != nil {
		stdlog.Fatalf("加载课程文档失败: %v", err)
	}
	fmt.Printf("课程入库完成: 新增 %d 门课程，%d 个切片，跳过 %d 个文件\n",
		result.CoursesAdded, result.ChunksAdded, result.Skipped)
}
