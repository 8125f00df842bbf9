package seeder

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"skillmatch/internal/database"
	"skillmatch/internal/domain/skill"

	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	vals []string
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.vals)
}
func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.vals[r.i-1]
	return nil
}

type fakeTx struct {
	db *fakeDB
}

func (t fakeTx) Exec(_ context.Context, query string, args ...any) (int64, error) {
	t.db.execs = append(t.db.execs, args)
	return 1, nil
}
func (t fakeTx) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, errors.New("not implemented")
}
func (t fakeTx) QueryRow(context.Context, string, ...any) database.Row { return nil }
func (t fakeTx) Commit(context.Context) error {
	t.db.committed = true
	return nil
}
func (t fakeTx) Rollback(context.Context) error { return nil }

type fakeDB struct {
	columns   []string
	execs     [][]any
	committed bool
}

func (db *fakeDB) Ping(context.Context) error { return nil }
func (db *fakeDB) Close() error               { return nil }
func (db *fakeDB) SQLDB() *sql.DB             { return nil }
func (db *fakeDB) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("not implemented")
}
func (db *fakeDB) Query(_ context.Context, query string, _ ...any) (database.Rows, error) {
	if !strings.Contains(query, "information_schema.columns") {
		return nil, errors.New("unexpected query")
	}
	return &fakeRows{vals: db.columns}, nil
}
func (db *fakeDB) QueryRow(context.Context, string, ...any) database.Row { return nil }
func (db *fakeDB) Begin(context.Context) (database.Tx, error)            { return fakeTx{db: db}, nil }

func TestSkillsSeeder_InsertsWholeVocabulary(t *testing.T) {
	db := &fakeDB{columns: []string{"id", "name", "category", "created_at"}}

	require.NoError(t, Runner{Seeders: Defaults()}.Run(context.Background(), db))
	require.True(t, db.committed)
	require.Len(t, db.execs, len(skill.All()))
	require.Equal(t, []any{"JavaScript", "Programming Languages"}, db.execs[0])
}

func TestSkillsSeeder_SchemaMismatch(t *testing.T) {
	db := &fakeDB{columns: []string{"id", "name"}}

	err := SkillsSeeder{}.Run(context.Background(), db)
	require.ErrorContains(t, err, "missing column skills.category")
	require.Empty(t, db.execs)
}
