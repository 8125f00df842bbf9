package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillmatch/internal/app"
	"skillmatch/internal/config"
	"skillmatch/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	log := logger.New(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Error("failed to init container", slog.Any("err", err))
		os.Exit(1)
	}

	bootstrap, cleanup, err := app.Bootstrap(ctx, container)
	if err != nil {
		log.Error("failed to bootstrap app", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Error("cleanup error", slog.Any("err", err))
		}
	}()

	hubDone := make(chan struct{})
	go func() {
		container.Hub.Run(ctx)
		close(hubDone)
	}()

	if !cfg.Scheduler.DisableCron {
		if err := container.Scheduler.Start(ctx); err != nil {
			log.Error("failed to start scheduler", slog.Any("err", err))
			os.Exit(1)
		}
	}

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Error("invalid HTTP port", slog.Any("err", err))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", addr))
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", slog.Any("err", err))
		}
		stop()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := bootstrap.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.Any("err", err))
	}
	if !cfg.Scheduler.DisableCron {
		container.Scheduler.Stop(shutdownCtx)
	}
	select {
	case <-hubDone:
	case <-shutdownCtx.Done():
	}
	log.Info("server stopped")
}
