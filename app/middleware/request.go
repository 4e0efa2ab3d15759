package middleware

import (
	"time"

	"github.com/beego/beego/v2/server/web"
	beecontext "github.com/beego/beego/v2/server/web/context"
	"github.com/cognicursos/backend-go/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-Id"

	dataRequestStart = "request_start"
	dataRequestID    = "request_id"
)

// RequestID 为每个请求分配ID并记录开始时间
func RequestID(ctx *beecontext.Context) {
	id := ctx.Input.Header(HeaderRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	ctx.Input.SetData(dataRequestID, id)
	ctx.Input.SetData(dataRequestStart, time.Now())
	ctx.Output.Header(HeaderRequestID, id)
}

// AccessLog 在响应结束后记录访问日志和 HTTP 指标，需以 FinishRouter 注册
func AccessLog(logger *zap.Logger, m *metrics.Metrics) web.FilterFunc {
	return func(ctx *beecontext.Context) {
		start, ok := ctx.Input.GetData(dataRequestStart).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		status := ctx.ResponseWriter.Status
		if status == 0 {
			status = 200
		}

		m.RecordHTTP(ctx.Input.Method(), status, elapsed)
		logger.Info("request",
			zap.String("request_id", RequestIDFrom(ctx)),
			zap.String("method", ctx.Input.Method()),
			zap.String("path", ctx.Input.URL()),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("ip", ClientIP(ctx)))
	}
}

// RequestIDFrom 读取当前请求ID
func RequestIDFrom(ctx *beecontext.Context) string {
	id, _ := ctx.Input.GetData(dataRequestID).(string)
	return id
}
