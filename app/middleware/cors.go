package middleware

import (
	"net/http"
	"slices"

	"github.com/beego/beego/v2/server/web/context"
)

// 默认允许的前端源
var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:3000",
}

// CORS 返回 CORS 过滤器；allowed 为空时使用默认列表，包含 "*" 时回显任意源
func CORS(allowed ...string) func(*context.Context) {
	if len(allowed) == 0 {
		allowed = defaultAllowedOrigins
	}
	allowAny := slices.Contains(allowed, "*")

	return func(ctx *context.Context) {
		origin := ctx.Input.Header("Origin")
		if origin != "" && (allowAny || slices.Contains(allowed, origin)) {
			ctx.Output.Header("Access-Control-Allow-Origin", origin)
			ctx.Output.Header("Access-Control-Allow-Credentials", "true")
			ctx.Output.Header("Vary", "Origin")
		}
		ctx.Output.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
		ctx.Output.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, X-Request-Id, Accept, Origin")
		ctx.Output.Header("Access-Control-Max-Age", "3600")

		// 处理OPTIONS预检请求
		if ctx.Input.Method() == http.MethodOptions {
			ctx.Output.SetStatus(http.StatusNoContent)
			_ = ctx.Output.Body([]byte(""))
		}
	}
}
