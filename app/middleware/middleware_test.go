package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beego/beego/v2/server/web"
	beecontext "github.com/beego/beego/v2/server/web/context"
	"github.com/cognicursos/backend-go/internal/auth"
	"github.com/cognicursos/backend-go/internal/config"
	"github.com/cognicursos/backend-go/internal/metrics"
	"github.com/cognicursos/backend-go/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// stubLimiter 按顺序返回预设结果
type stubLimiter struct {
	allowed []bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return false, s.err
	}
	ok := s.allowed[0]
	s.allowed = s.allowed[1:]
	return ok, nil
}

// stubUsers 内存中的用户表
type stubUsers map[uint]*models.User

func (s stubUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newRegister(t *testing.T, filters map[string]web.FilterFunc) *web.ControllerRegister {
	t.Helper()
	cr := web.NewControllerRegister()
	for pattern, f := range filters {
		require.NoError(t, cr.InsertFilter(pattern, web.BeforeRouter, f))
	}
	cr.Get("/api/eco", func(ctx *beecontext.Context) {
		user, _ := ctx.Input.GetData(DataUserID).(uint)
		if user != 0 {
			ctx.Output.Header("X-User", "ok")
		}
		_ = ctx.Output.Body([]byte("ok"))
	})
	return cr
}

func serve(cr http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	cr.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	issuer, err := auth.NewTokenIssuer("segredo", "cognicursos", time.Hour)
	require.NoError(t, err)
	users := stubUsers{
		7: {ID: 7, Username: "ana", IsActive: true},
		8: {ID: 8, Username: "bia", IsActive: false},
	}
	sm := NewSecurityMiddleware(issuer, users, nil, nil, zap.NewNop())
	cr := newRegister(t, map[string]web.FilterFunc{"/api/*": sm.Authenticate()})

	// 无令牌放行
	rec := serve(cr, httptest.NewRequest(http.MethodGet, "/api/eco", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-User"))

	token, err := issuer.Issue(7, "ana")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/eco", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = serve(cr, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Header().Get("X-User"))

	req = httptest.NewRequest(http.MethodGet, "/api/eco", nil)
	req.Header.Set("Authorization", "Bearer invalido")
	rec = serve(cr, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)

	req = httptest.NewRequest(http.MethodGet, "/api/eco", nil)
	req.Header.Set("Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, serve(cr, req).Code)

	// 签名有效但用户已停用或不存在
	for _, id := range []uint{8, 9} {
		token, err := issuer.Issue(id, "x")
		require.NoError(t, err)
		req = httptest.NewRequest(http.MethodGet, "/api/eco", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec = serve(cr, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "user %d", id)
		assert.Empty(t, rec.Header().Get("X-User"))
	}
}

func TestRateLimit(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	limiter := &stubLimiter{allowed: []bool{true, false}}
	sm := NewSecurityMiddleware(nil, nil, limiter, m, zap.NewNop())
	cr := newRegister(t, map[string]web.FilterFunc{"/api/*": sm.RateLimit()})

	newReq := func(forwarded string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/eco", nil)
		req.RemoteAddr = "198.51.100.4:5123"
		req.Header.Set("X-Forwarded-For", forwarded)
		req.Header.Set("X-Real-IP", forwarded)
		return req
	}
	assert.Equal(t, http.StatusOK, serve(cr, newReq("203.0.113.9")).Code)

	rec := serve(cr, newReq("203.0.113.10"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOO_MANY_REQUESTS")
	// 没有可信代理时转发头被忽略
	assert.Equal(t, []string{"198.51.100.4", "198.51.100.4"}, limiter.keys)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.RateLimited))
}

func TestRateLimit_ForwardedHeaderCannotResetQuota(t *testing.T) {
	sm := NewSecurityMiddleware(nil, nil, NewMemoryLimiter(1, 1), nil, zap.NewNop())
	cr := newRegister(t, map[string]web.FilterFunc{"/api/*": sm.RateLimit()})

	allowed := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/eco", nil)
		req.RemoteAddr = "10.0.0.1:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		if serve(cr, req).Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)
}

func TestRateLimit_TrustedProxy(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	limiter := &stubLimiter{allowed: []bool{true, true, true}}
	sm := NewSecurityMiddleware(nil, nil, limiter, nil, zap.NewNop()).WithTrustedProxies(proxies)
	cr := newRegister(t, map[string]web.FilterFunc{"/api/*": sm.RateLimit()})

	send := func(remote, forwarded string) {
		req := httptest.NewRequest(http.MethodGet, "/api/eco", nil)
		req.RemoteAddr = remote
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		require.Equal(t, http.StatusOK, serve(cr, req).Code)
	}
	send("10.0.0.1:1000", "203.0.113.9, 10.0.0.2")
	// 客户端自己追加的最左值不被采用
	send("10.0.0.1:1000", "1.2.3.4, 203.0.113.9")
	send("198.51.100.4:1000", "203.0.113.9")

	assert.Equal(t, []string{"203.0.113.9", "203.0.113.9", "198.51.100.4"}, limiter.keys)
}

func TestParseTrustedProxies(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"127.0.0.1", " 10.0.0.0/8 ", "", "::1"})
	require.NoError(t, err)
	assert.Len(t, proxies, 3)
	assert.True(t, proxies.trusts("127.0.0.1"))
	assert.True(t, proxies.trusts("10.20.30.40"))
	assert.True(t, proxies.trusts("::1"))
	assert.False(t, proxies.trusts("127.0.0.2"))
	assert.False(t, proxies.trusts("not-an-ip"))

	_, err = ParseTrustedProxies([]string{"proxy.local"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/40"})
	assert.Error(t, err)
}

func TestRateLimit_LimiterErrorDoesNotBlock(t *testing.T) {
	sm := NewSecurityMiddleware(nil, nil, &stubLimiter{err: assert.AnError}, nil, zap.NewNop())
	cr := newRegister(t, map[string]web.FilterFunc{"/api/*": sm.RateLimit()})
	assert.Equal(t, http.StatusOK, serve(cr, httptest.NewRequest(http.MethodGet, "/api/eco", nil)).Code)
}

func TestMemoryLimiter(t *testing.T) {
	limiter := NewMemoryLimiter(60, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "1.1.1.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := limiter.Allow(ctx, "1.1.1.1")
	assert.False(t, ok)

	// 其他客户端不受影响
	ok, _ = limiter.Allow(ctx, "2.2.2.2")
	assert.True(t, ok)
}

func TestCORS(t *testing.T) {
	cr := newRegister(t, map[string]web.FilterFunc{"/*": CORS()})

	req := httptest.NewRequest(http.MethodOptions, "/api/eco", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := serve(cr, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/eco", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = serve(cr, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	cr := newRegister(t, map[string]web.FilterFunc{"/*": RequestID})

	rec := serve(cr, httptest.NewRequest(http.MethodGet, "/api/eco", nil))
	assert.Len(t, rec.Header().Get(HeaderRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/eco", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	assert.Equal(t, "abc-123", serve(cr, req).Header().Get(HeaderRequestID))
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(config.RateLimitConfig{Enabled: false, RequestsPerMinute: 30}, nil))
	assert.Nil(t, NewLimiter(config.RateLimitConfig{Enabled: true}, nil))
	assert.IsType(t, &MemoryLimiter{}, NewLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 30, Burst: 5}, nil))
}
