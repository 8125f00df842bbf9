package seeder

import (
	"context"

	"skillmatch/internal/database"
	"skillmatch/internal/domain/skill"
)

// SkillsSeeder mirrors the compiled vocabulary into the skills table. Rows
// whose category moved are updated in place; nothing is ever deleted so
// existing profiles keep resolving.
type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "created_at"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, s := range skill.All() {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO skills (id, name, category) VALUES (gen_random_uuid(), $1, $2)
				 ON CONFLICT (name) DO UPDATE SET category = EXCLUDED.category
				 WHERE skills.category <> EXCLUDED.category`,
				s.Name,
				s.Category,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
