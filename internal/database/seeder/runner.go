package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"skillmatch/internal/database"
	"skillmatch/internal/pkg/logger"
)

type Runner struct {
	Seeders []Seeder
	Logger  *slog.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	log := logger.OrDiscard(r.Logger)
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder applied", slog.String("seeder", s.Name()))
	}
	return nil
}
