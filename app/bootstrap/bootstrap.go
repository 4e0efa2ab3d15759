package bootstrap

import (
	"context"
	"log"

	"github.com/beego/beego/v2/server/web"
	"github.com/cognicursos/backend-go/app/middleware"
	"github.com/cognicursos/backend-go/app/router"
	"github.com/cognicursos/backend-go/internal/auth"
	"github.com/cognicursos/backend-go/internal/config"
	"github.com/cognicursos/backend-go/internal/database"
	"github.com/cognicursos/backend-go/internal/di"
	"github.com/cognicursos/backend-go/internal/kafka"
	"github.com/cognicursos/backend-go/internal/logger"
	"github.com/cognicursos/backend-go/internal/metrics"
	"github.com/cognicursos/backend-go/internal/repository"
	"github.com/cognicursos/backend-go/internal/services"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	Config       *config.Config
	container    *dig.Container
	cleanupTasks []func() error
}

// Init bootstraps configuration, logger, database connections and other shared
// infrastructure components required by the Beego application.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	if err := logger.InitLogger(cfg.Server.Env, ""); err != nil {
		return nil, err
	}

	container, err := di.New(cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, container: container}
	if err := app.container.Provide(provideSecurity); err != nil {
		return nil, err
	}

	// 注册资源清理（逆序执行）
	if err := app.container.Invoke(func(db *gorm.DB, rdb *redis.Client, producer *kafka.Producer) {
		app.cleanupTasks = append(app.cleanupTasks, func() error { return database.Close(db) })
		if rdb != nil {
			app.cleanupTasks = append(app.cleanupTasks, rdb.Close)
		}
		if producer != nil {
			app.cleanupTasks = append(app.cleanupTasks, producer.Close)
		}
	}); err != nil {
		return nil, err
	}

	if err := app.container.Invoke(func(users *services.UserService) error {
		return users.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email)
	}); err != nil {
		logger.Warn("Failed to create initial user", zap.Error(err))
	}

	return app, nil
}

func provideSecurity(cfg *config.Config, tokens *auth.TokenIssuer, users repository.UserRepository, rdb *redis.Client, m *metrics.Metrics, zl *zap.Logger) (*middleware.SecurityMiddleware, error) {
	proxies, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}
	sm := middleware.NewSecurityMiddleware(tokens, users, middleware.NewLimiter(cfg.RateLimit, rdb), m, zl.Named("http"))
	return sm.WithTrustedProxies(proxies), nil
}

// RegisterRoutes 把路由注册到 beego 的全局处理器
func (a *App) RegisterRoutes() error {
	web.BConfig.CopyRequestBody = true
	web.BConfig.WebConfig.AutoRender = false
	return a.container.Invoke(func(deps router.Deps) error {
		return router.Register(web.BeeApp.Handlers, deps)
	})
}

// Shutdown flushes/logs and closes resources gracefully.
func (a *App) Shutdown() {
	// Execute cleanup tasks in reverse order (best effort).
	for i := len(a.cleanupTasks) - 1; i >= 0; i-- {
		if err := a.cleanupTasks[i](); err != nil {
			log.Printf("Cleanup error: %v\n", err)
		}
	}

	// Flush logger buffers.
	logger.Sync()
}
