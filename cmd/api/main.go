package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/internal/app"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/config"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/logger"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		slog.Error("loading .env", logger.Error(err))
		os.Exit(1)
	}

	var cfg app.Config
	if err := config.Load(&cfg); err != nil {
		slog.Error("loading configuration", logger.Error(err))
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(logger.RequestIDExtractor(), logger.IdentityExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg app.Config, log *slog.Logger) error {
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		_ = a.Close(closeCtx)
	}()
	return a.Run(ctx)
}
