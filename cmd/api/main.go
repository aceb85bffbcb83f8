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
	"fmt"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzslog "github.com/hertz-contrib/logger/slog"

	apihttp "course-assistant/internal/api/http"
	"course-assistant/internal/api/http/middleware"
	"course-assistant/internal/app"
	"course-assistant/pkg/config"
	"course-assistant/pkg/log"
)

func main() {
	cfg, err := config.LoadAPIConfigWithModel()
	if err != nil {
		stdlog.Fatalf("加载配置失败: %v", err)
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
		if err := bootstrap.Close(); err != nil {
			logger.Warn("关闭存储失败", "error", err)
		}
	}()

	// 启动时预加载课程文档（与 cmd/ingest 幂等，已入库课程跳过）
	if docsPath := cfg.Assistant.DocsPath; docsPath != "" {
		if _, statErr := os.Stat(docsPath); statErr == nil {
			result, loadErr := bootstrap.Loader.LoadFolder(ctx, docsPath)
			if loadErr != nil {
				logger.Warn("预加载课程文档失败", "path", docsPath, "error", loadErr)
			} else {
				logger.Info("课程文档已加载",
					"courses", result.CoursesAdded, "chunks", result.ChunksAdded, "skipped", result.Skipped)
			}
		}
	}

	// Hertz 日志对齐 slog 配置
	levelVar := &slog.LevelVar{}
	switch cfg.Log.Level {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "warn":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
	hlog.SetLogger(hertzslog.NewLogger(hertzslog.WithLevel(levelVar)))

	handler := apihttp.NewHandler(bootstrap.Assistant)
	var allowOrigins []string
	if cfg.API.CORS.Enable {
		allowOrigins = cfg.API.CORS.AllowOrigins
	}
	router := apihttp.NewRouter(handler, middleware.NewMiddleware(allowOrigins), cfg.Monitoring.Prometheus.Enable)

	addr := ":8000"
	if cfg.API.Port > 0 {
		addr = fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	}
	h := router.Build(addr)

	go func() {
		logger.Info("API 服务启动", "addr", addr)
		if err := h.Run(); err != nil {
			logger.Error("API 服务异常退出", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭失败", "error", err)
	}
	logger.Info("API 服务已关闭")
}
