package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cognicursos/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter 按 key（客户端 IP）限流
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter 进程内令牌桶限流，每个 key 一个 rate.Limiter
type MemoryLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	maxKeys  int
}

// NewMemoryLimiter rpm 为每分钟请求数
func NewMemoryLimiter(rpm, burst int) *MemoryLimiter {
	if burst < 1 {
		burst = 1
	}
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(rpm) / 60.0),
		burst:    burst,
		maxKeys:  10000,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= l.maxKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow(), nil
}

// RedisLimiter 基于 Redis 的固定窗口计数，多实例共享
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, rpm int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  rpm,
		window: time.Minute,
		prefix: "cognicursos:ratelimit",
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := l.now().Unix() / int64(l.window/time.Second)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	return incr.Val() <= int64(l.limit), nil
}

// NewLimiter Redis 可用时使用 RedisLimiter，否则退回进程内限流；未启用时返回 nil
func NewLimiter(cfg config.RateLimitConfig, client *redis.Client) Limiter {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return nil
	}
	if client != nil {
		return NewRedisLimiter(client, cfg.RequestsPerMinute)
	}
	return NewMemoryLimiter(cfg.RequestsPerMinute, cfg.Burst)
}
