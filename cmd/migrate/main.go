package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"skillmatch/internal/config"
	"skillmatch/internal/database/migration"
	dbpostgres "skillmatch/internal/database/postgres"
	"skillmatch/internal/database/seeder"
	"skillmatch/internal/pkg/logger"
)

func main() {
	seed := flag.Bool("seed", true, "sync the skill vocabulary after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	log := logger.New(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to connect database", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := (migration.Runner{Logger: log}).Run(ctx, db.SQLDB()); err != nil {
		log.Error("migration failed", slog.Any("err", err))
		os.Exit(1)
	}

	if *seed {
		if err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: log}).Run(ctx, db); err != nil {
			log.Error("seeding failed", slog.Any("err", err))
			os.Exit(1)
		}
	}
	log.Info("database ready")
}
