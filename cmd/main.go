package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/HiSumm3rs/Bot-IDBL/internal/config"
	"github.com/HiSumm3rs/Bot-IDBL/internal/ctrl"
	hdl "github.com/HiSumm3rs/Bot-IDBL/internal/hdl/discord"
	"github.com/HiSumm3rs/Bot-IDBL/internal/observability/metrics/prometheus"
	"github.com/HiSumm3rs/Bot-IDBL/internal/observability/tracing/jaeger"
	"github.com/HiSumm3rs/Bot-IDBL/internal/repo/filedb"
	"go.uber.org/zap"
)

const configPath = "configs/local.config.yaml"

func mustRegisterLogger(mode string) {
	switch mode {
	case "prod":
		zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
	case "dev":
		zap.ReplaceGlobals(zap.Must(zap.NewDevelopment()))
	}
}

func main() {
	defer func() {
		if err := recover(); err != nil {
			zap.L().Panic("panic occurred", zap.Any("error", err))
			os.Exit(1)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := config.MustLoad(configPath)
	mustRegisterLogger(conf.Server.Mode)

	if conf.Token == "" {
		zap.L().Error("DISCORD_TOKEN is not set; add your bot token to the environment or a .env file")
		os.Exit(1)
	}

	go prometheus.New(conf.Server.MetricsPort).Start(ctx)
	go jaeger.Start(ctx, conf.ServiceName, &conf.Jaeger)

	repo := filedb.New(&conf.Store)
	svc := ctrl.New(repo)
	h, err := hdl.New(svc, conf)
	if err != nil {
		zap.L().Fatal("Failed to create chat handler", zap.Error(err))
	}

	zap.L().Info(
		"Starting bot",
		zap.String("prefix", conf.Server.Prefix),
		zap.String("store", conf.Store.Path),
	)
	if err = h.Start(); err != nil {
		zap.L().Fatal("Failed to connect to the gateway", zap.Error(err))
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-c

	zap.L().Info("Shutting down gracefully...")
	if err = h.Close(ctx); err != nil {
		zap.L().Warn("Error closing handler", zap.Error(err))
	}

	os.Exit(0)
}
