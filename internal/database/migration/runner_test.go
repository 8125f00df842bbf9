package migration

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_SortsAndChecksums(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"m/V2__add_index.sql": {Data: []byte("CREATE INDEX a ON t (c);\n")},
		"m/V1__init.sql":      {Data: []byte("  CREATE TABLE t (c INT);  ")},
		"m/README.md":         {Data: []byte("ignored")},
	}

	migs, err := loadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migs, 2)
	require.Equal(t, int64(1), migs[0].Version)
	require.Equal(t, "init", migs[0].Name)
	require.Equal(t, "CREATE TABLE t (c INT);", migs[0].SQL)
	require.Len(t, migs[0].Checksum, 64)
	require.Equal(t, int64(2), migs[1].Version)
}

func TestLoadMigrations_RejectsDuplicatesAndEmpty(t *testing.T) {
	t.Parallel()

	_, err := loadMigrations(fstest.MapFS{
		"V1__a.sql": {Data: []byte("SELECT 1")},
		"V1__b.sql": {Data: []byte("SELECT 2")},
	}, ".")
	require.ErrorContains(t, err, "duplicate migration version")

	_, err = loadMigrations(fstest.MapFS{
		"V3__empty.sql": {Data: []byte("   ")},
	}, ".")
	require.ErrorContains(t, err, "empty migration file")
}

func TestLoadMigrations_MissingDirIsEmpty(t *testing.T) {
	t.Parallel()

	migs, err := loadMigrations(fstest.MapFS{}, "nope")
	require.NoError(t, err)
	require.Empty(t, migs)
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	t.Parallel()

	fsys, dir := Runner{}.source()
	migs, err := loadMigrations(fsys, dir)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	require.Equal(t, int64(1), migs[0].Version)
	require.Contains(t, migs[0].SQL, "CREATE TABLE IF NOT EXISTS matches")
}
