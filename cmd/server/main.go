package main

import (
	"log"
	"strconv"

	"github.com/beego/beego/v2/server/web"
	"github.com/cognicursos/backend-go/app/bootstrap"
	"github.com/cognicursos/backend-go/internal/logger"
	"go.uber.org/zap"
)

const defaultPort = 8000

func main() {
	app, err := bootstrap.Init()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer app.Shutdown()

	web.BConfig.AppName = "CogniCursos"
	web.BConfig.RunMode = web.PROD
	if !app.Config.IsProduction() {
		web.BConfig.RunMode = web.DEV
	}
	web.BConfig.Listen.HTTPPort = defaultPort
	if p, err := strconv.Atoi(app.Config.Server.Port); err == nil && p > 0 {
		web.BConfig.Listen.HTTPPort = p
	}

	if err := app.RegisterRoutes(); err != nil {
		logger.Error("Failed to register routes", zap.Error(err))
		return
	}

	logger.Info("🚀 Starting CogniCursos API", zap.Int("port", web.BConfig.Listen.HTTPPort))
	web.Run()
}
