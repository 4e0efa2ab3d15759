package di

import (
	"context"
	"database/sql"
	"os"

	"github.com/cognicursos/backend-go/internal/auth"
	"github.com/cognicursos/backend-go/internal/config"
	"github.com/cognicursos/backend-go/internal/database"
	"github.com/cognicursos/backend-go/internal/kafka"
	"github.com/cognicursos/backend-go/internal/llm"
	"github.com/cognicursos/backend-go/internal/logger"
	"github.com/cognicursos/backend-go/internal/metrics"
	"github.com/cognicursos/backend-go/internal/repository"
	"github.com/cognicursos/backend-go/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterProviders 注册所有依赖提供者
func RegisterProviders(container *dig.Container, cfg *config.Config) error {
	providers := []interface{}{
		func() *config.Config { return cfg },
		func() *zap.Logger { return logger.GetLogger() },
		newLogrus,

		// 基础设施
		provideDB,
		provideSQLDB,
		database.NewHealthChecker,
		provideRedis,
		provideRegistry,
		func(reg *prometheus.Registry) prometheus.Registerer { return reg },
		func(reg *prometheus.Registry) prometheus.Gatherer { return reg },
		metrics.New,
		provideTokenIssuer,
		func(c *config.Config) llm.Factory { return llm.NewFactory(c.AI) },
		provideProducer,

		// 仓储
		repository.NewCategoryRepository,
		repository.NewCourseRepository,
		repository.NewAIConfigurationRepository,
		repository.NewInteractionRepository,
		repository.NewUserRepository,

		// 服务
		services.NewValidator,
		services.NewCategoryService,
		services.NewCourseService,
		services.NewAIConfigurationService,
		services.NewInteractionService,
		services.NewUserService,
		provideQuestionService,
	}

	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return err
		}
	}
	return nil
}

// newLogrus 数据库与迁移组件使用的 logrus 日志
func newLogrus(c *config.Config) *logrus.Logger {
	l := &logrus.Logger{
		Out:       os.Stdout,
		Formatter: &logrus.JSONFormatter{},
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}
	if !c.IsProduction() {
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}
	return l
}

func provideDB(c *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	return database.Open(c.Database, log)
}

func provideSQLDB(db *gorm.DB) (*sql.DB, error) {
	return db.DB()
}

// provideRedis Redis 可选，未启用或连接失败时返回 nil
func provideRedis(c *config.Config, log *logrus.Logger) *redis.Client {
	if !c.Redis.Enabled {
		return nil
	}
	rdb, err := database.NewRedis(context.Background(), c.Redis, log)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, rate limiting falls back to in-process counters")
		return nil
	}
	return rdb
}

func provideRegistry(sqlDB *sql.DB, log *logrus.Logger) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		database.NewPoolCollector(sqlDB, log),
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func provideTokenIssuer(c *config.Config) (*auth.TokenIssuer, error) {
	return auth.NewTokenIssuer(c.JWT.Secret, c.JWT.Issuer, c.JWT.ExpiresIn)
}

// provideProducer Kafka 可选，未启用或连接失败时返回 nil
func provideProducer(c *config.Config, log *zap.Logger) *kafka.Producer {
	if !c.Kafka.Enabled || len(c.Kafka.Brokers) == 0 {
		return nil
	}
	producer, err := kafka.NewProducer(c.Kafka.Brokers, c.Kafka.Topic, log)
	if err != nil {
		log.Warn("Failed to initialize Kafka producer", zap.Error(err))
		return nil
	}
	return producer
}

type questionParams struct {
	dig.In

	Config       *config.Config
	Courses      repository.CourseRepository
	Configs      repository.AIConfigurationRepository
	Interactions repository.InteractionRepository
	Providers    llm.Factory
	Producer     *kafka.Producer
	Metrics      *metrics.Metrics
	Validator    *services.Validator
	Logger       *zap.Logger
}

func provideQuestionService(p questionParams) *services.QuestionService {
	deps := services.QuestionServiceDeps{
		Courses:      p.Courses,
		Configs:      p.Configs,
		Interactions: p.Interactions,
		Providers:    p.Providers,
		Metrics:      p.Metrics,
		Validator:    p.Validator,
		Logger:       p.Logger.Named("question"),
		Timeout:      p.Config.AI.RequestTimeout,
	}
	// 避免把 nil *Producer 装进接口
	if p.Producer != nil {
		deps.Publisher = p.Producer
	}
	return services.NewQuestionService(deps)
}
