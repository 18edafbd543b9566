package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/lugx/internal/app"
)

// loadConfig накладывает переменные окружения на настройки по умолчанию.
func loadConfig(lookup app.EnvLookup) (app.Config, []string) {
	return app.ReadConfigFromEnv(app.DefaultOrderConfig(), lookup)
}

func main() {
	cfg, warnings := loadConfig(os.LookupEnv)
	if err := app.SetupLogger(cfg.LogLevel); err != nil {
		log.WithError(err).Warn("используем уровень логирования info")
	}
	for _, w := range warnings {
		log.Warn(w)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":      cfg.HTTPAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.StorageDriver,
	}).Info("запускаем OrderService")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("OrderService остановлен")
}
