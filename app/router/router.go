package router

import (
	"github.com/beego/beego/v2/server/web"
	"github.com/cognicursos/backend-go/app/controllers"
	"github.com/cognicursos/backend-go/app/middleware"
	"github.com/cognicursos/backend-go/internal/config"
	"github.com/cognicursos/backend-go/internal/database"
	"github.com/cognicursos/backend-go/internal/metrics"
	"github.com/cognicursos/backend-go/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

// Deps 路由所需的全部依赖，由 dig 容器填充
type Deps struct {
	dig.In

	Categories   *services.CategoryService
	Courses      *services.CourseService
	Configs      *services.AIConfigurationService
	Interactions *services.InteractionService
	Users        *services.UserService
	Questions    *services.QuestionService

	Security *middleware.SecurityMiddleware
	Health   *database.HealthChecker
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger

	Config *config.Config `optional:"true"`
	Redis  *redis.Client  `optional:"true"`
}

// Register 注册过滤器与全部路由
func Register(cr *web.ControllerRegister, deps Deps) error {
	if err := registerFilters(cr, deps); err != nil {
		return err
	}

	health := controllers.NewHealthController(deps.Health, deps.Redis)
	cr.Add("/health", health, web.WithRouterMethods(health, "get:Health"))

	if deps.Config == nil || deps.Config.Prometheus.Enabled {
		metricsCtrl := controllers.NewMetricsController(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
		cr.Add("/metrics", metricsCtrl, web.WithRouterMethods(metricsCtrl, "get:Metrics"))
	}

	authCtrl := controllers.NewAuthController(deps.Users)
	cr.Add("/api/auth/token", authCtrl, web.WithRouterMethods(authCtrl, "post:Token"))

	users := controllers.NewUserController(deps.Users)
	cr.Add("/api/usuarios", users, web.WithRouterMethods(users, "get:List;post:Create"))
	cr.Add("/api/usuarios/:id", users, web.WithRouterMethods(users, "get:Get;put,patch:Update;delete:Delete"))

	categories := controllers.NewCategoryController(deps.Categories)
	cr.Add("/api/categorias", categories, web.WithRouterMethods(categories, "get:List;post:Create"))
	cr.Add("/api/categorias/:id", categories, web.WithRouterMethods(categories, "get:Get;put,patch:Update;delete:Delete"))

	courses := controllers.NewCourseController(deps.Courses, deps.Questions)
	cr.Add("/api/cursos", courses, web.WithRouterMethods(courses, "get:List;post:Create"))
	cr.Add("/api/cursos/:id", courses, web.WithRouterMethods(courses, "get:Get;put,patch:Update;delete:Delete"))
	cr.Add("/api/cursos/:id/perguntar", courses, web.WithRouterMethods(courses, "post:Ask"))

	configs := controllers.NewAIConfigurationController(deps.Configs)
	cr.Add("/api/configuracoes-ia", configs, web.WithRouterMethods(configs, "get:List;post:Create"))
	cr.Add("/api/configuracoes-ia/:id", configs, web.WithRouterMethods(configs, "get:Get;put,patch:Update;delete:Delete"))

	interactions := controllers.NewInteractionController(deps.Interactions)
	cr.Add("/api/interacoes", interactions, web.WithRouterMethods(interactions, "get:List"))
	cr.Add("/api/interacoes/:id", interactions, web.WithRouterMethods(interactions, "get:Get"))

	return nil
}

func registerFilters(cr *web.ControllerRegister, deps Deps) error {
	filters := []struct {
		pattern string
		pos     int
		filter  web.FilterFunc
		opts    []web.FilterOpt
	}{
		{"/*", web.BeforeRouter, middleware.RequestID, nil},
		{"/*", web.BeforeRouter, middleware.CORS(allowedOrigins(deps.Config)...), nil},
		{"/*", web.BeforeRouter, middleware.SecurityHeaders, nil},
		{"/api/*", web.BeforeRouter, deps.Security.Authenticate(), nil},
		{"/api/cursos/:id/perguntar", web.BeforeRouter, deps.Security.RateLimit(), nil},
		{"/*", web.FinishRouter, middleware.AccessLog(deps.Logger, deps.Metrics), []web.FilterOpt{web.WithReturnOnOutput(false)}},
	}
	for _, f := range filters {
		if err := cr.InsertFilter(f.pattern, f.pos, f.filter, f.opts...); err != nil {
			return err
		}
	}
	return nil
}

func allowedOrigins(cfg *config.Config) []string {
	if cfg == nil {
		return nil
	}
	return cfg.Server.AllowedOrigins
}
