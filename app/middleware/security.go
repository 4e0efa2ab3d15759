package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/beego/beego/v2/server/web"
	beecontext "github.com/beego/beego/v2/server/web/context"
	"github.com/cognicursos/backend-go/internal/auth"
	apperrors "github.com/cognicursos/backend-go/internal/errors"
	"github.com/cognicursos/backend-go/internal/metrics"
	"github.com/cognicursos/backend-go/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 请求上下文中的数据键
const (
	DataUserID   = "user_id"
	DataUsername = "username"
)

// UserLookup 每次请求按令牌中的 user_id 加载用户
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// SecurityMiddleware 认证、限流与安全头
type SecurityMiddleware struct {
	tokens  *auth.TokenIssuer
	users   UserLookup
	limiter Limiter
	proxies TrustedProxies
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewSecurityMiddleware limiter 与 m 可以为 nil
func NewSecurityMiddleware(tokens *auth.TokenIssuer, users UserLookup, limiter Limiter, m *metrics.Metrics, logger *zap.Logger) *SecurityMiddleware {
	return &SecurityMiddleware{
		tokens:  tokens,
		users:   users,
		limiter: limiter,
		metrics: m,
		logger:  logger,
	}
}

// WithTrustedProxies 设置可信代理，限流键才会读取转发头
func (sm *SecurityMiddleware) WithTrustedProxies(proxies TrustedProxies) *SecurityMiddleware {
	sm.proxies = proxies
	return sm
}

// Authenticate 解析 Bearer 令牌并写入 user_id；没有令牌时放行，
// 由控制器决定是否需要登录。令牌无效时直接返回 401。
func (sm *SecurityMiddleware) Authenticate() web.FilterFunc {
	return func(ctx *beecontext.Context) {
		header := ctx.Input.Header("Authorization")
		if header == "" {
			return
		}

		token, err := auth.ExtractBearer(header)
		if err != nil {
			WriteError(ctx, apperrors.NewUnauthorizedError("Cabeçalho de autorização inválido."))
			return
		}
		claims, err := sm.tokens.Validate(token)
		if err != nil {
			sm.logger.Warn("JWT validation failed", zap.String("path", ctx.Input.URL()), zap.Error(err))
			WriteError(ctx, apperrors.NewUnauthorizedError("Token inválido ou expirado."))
			return
		}

		// 停用或删除的用户，其未过期令牌同样失效
		user, err := sm.users.GetByID(ctx.Request.Context(), claims.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !user.IsActive) {
			sm.logger.Warn("Token for missing or inactive user", zap.Uint("user_id", claims.UserID))
			WriteError(ctx, apperrors.NewUnauthorizedError("Usuário inativo ou inexistente."))
			return
		}
		if err != nil {
			sm.logger.Error("Failed to load token user", zap.Uint("user_id", claims.UserID), zap.Error(err))
			WriteError(ctx, apperrors.NewDatabaseError("Erro interno do servidor.", err))
			return
		}

		ctx.Input.SetData(DataUserID, user.ID)
		ctx.Input.SetData(DataUsername, user.Username)
	}
}

// RateLimit 按客户端 IP 限流，超限返回 429
func (sm *SecurityMiddleware) RateLimit() web.FilterFunc {
	return func(ctx *beecontext.Context) {
		if sm.limiter == nil {
			return
		}

		ip := sm.proxies.ClientIP(ctx)
		allowed, err := sm.limiter.Allow(ctx.Request.Context(), ip)
		if err != nil {
			// 计数器不可用时不阻断请求
			sm.logger.Warn("Rate limiter unavailable", zap.Error(err))
			return
		}
		if !allowed {
			sm.metrics.RecordRateLimited()
			sm.logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", ctx.Input.URL()))
			WriteError(ctx, apperrors.NewBusinessError(apperrors.ErrCodeTooManyRequests, "Limite de requisições excedido. Tente novamente em instantes."))
		}
	}
}

// SecurityHeaders 安全头中间件
func SecurityHeaders(ctx *beecontext.Context) {
	ctx.Output.Header("X-Content-Type-Options", "nosniff")
	ctx.Output.Header("X-Frame-Options", "DENY")
	ctx.Output.Header("Referrer-Policy", "strict-origin-when-cross-origin")
}

// WriteError 写出错误响应并终止后续处理
func WriteError(ctx *beecontext.Context, appErr *apperrors.AppError) {
	status := appErr.HTTPCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	body, _ := json.Marshal(map[string]interface{}{
		"success": false,
		"error":   appErr.Message,
		"code":    appErr.Code,
	})
	ctx.Output.Header("Content-Type", "application/json; charset=utf-8")
	ctx.Output.SetStatus(status)
	_ = ctx.Output.Body(body)
}
