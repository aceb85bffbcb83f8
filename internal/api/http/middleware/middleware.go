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

package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Middleware 中间件管理器
type Middleware struct {
	allowOrigins []string
}

// NewMiddleware 创建中间件管理器。allowOrigins 为空时允许所有来源。
func NewMiddleware(allowOrigins []string) *Middleware {
	return &Middleware{allowOrigins: allowOrigins}
}

// CORS CORS 中间件
func (m *Middleware) CORS() app.HandlerFunc {
	allowOrigin := "*"
	if len(m.allowOrigins) > 0 {
		allowOrigin = strings.Join(m.allowOrigins, ", ")
	}
	return func(c context.Context, ctx *app.RequestContext) {
		ctx.Response.Header.Set("Access-Control-Allow-Origin", allowOrigin)
		ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		ctx.Response.Header.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")
		ctx.Response.Header.Set("Access-Control-Max-Age", "86400")

		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}

// AccessLog 访问日志中间件
func (m *Middleware) AccessLog() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		hlog.CtxInfof(c, "%s %s %d %s",
			ctx.Method(), ctx.Path(), ctx.Response.StatusCode(), time.Since(start))
	}
}
