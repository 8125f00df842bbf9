package seeder

import (
	"context"

	"skillmatch/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
