package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/cognicursos/backend-go/internal/database"
	"github.com/redis/go-redis/v9"
)

// HealthController 存活与依赖检查
type HealthController struct {
	BaseController
	Checker *database.HealthChecker
	Redis   *redis.Client
}

func NewHealthController(checker *database.HealthChecker, rdb *redis.Client) *HealthController {
	return &HealthController{Checker: checker, Redis: rdb}
}

// Health GET /health，数据库不可用时返回 503
func (c *HealthController) Health() {
	ctx := c.Ctx.Request.Context()
	db := c.Checker.Probe(ctx)

	status, code := "ok", http.StatusOK
	if !db.Healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, map[string]interface{}{
		"status":   status,
		"database": db,
		"redis":    c.redisStatus(ctx),
		"time":     time.Now().UTC(),
	})
}

// Redis 只作为限流计数器，故障不影响整体状态
func (c *HealthController) redisStatus(ctx context.Context) string {
	if c.Redis == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		return "unavailable"
	}
	return "ok"
}

// MetricsController Prometheus 指标
type MetricsController struct {
	BaseController
	Handler http.Handler
}

func NewMetricsController(handler http.Handler) *MetricsController {
	return &MetricsController{Handler: handler}
}

// Metrics 返回Prometheus格式的指标
func (c *MetricsController) Metrics() {
	c.Handler.ServeHTTP(c.Ctx.ResponseWriter, c.Ctx.Request)
}
