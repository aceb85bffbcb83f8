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

package http

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"

	"course-assistant/internal/api/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	handler    *Handler
	middleware *middleware.Middleware
	metricsOn  bool
}

// NewRouter 创建 HTTP 路由器
func NewRouter(handler *Handler, mw *middleware.Middleware, metricsOn bool) *Router {
	return &Router{
		handler:    handler,
		middleware: mw,
		metricsOn:  metricsOn,
	}
}

// Build 创建 Hertz server 并注册路由，addr 如 ":8000"
func (r *Router) Build(addr string, opts ...hertzconfig.Option) *server.Hertz {
	opts = append(opts, server.WithHostPorts(addr))
	h := server.Default(opts...)

	h.Use(r.middleware.AccessLog())
	h.Use(r.middleware.CORS())

	api := h.Group("/api")
	api.POST("/query", r.handler.Query)
	api.GET("/courses", r.handler.Courses)
	api.GET("/health", r.handler.HealthCheck)

	if r.metricsOn {
		h.GET("/metrics", r.handler.Metrics)
	}

	return h
}
