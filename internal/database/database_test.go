package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/motus/assets"
)

func TestMigrateEmbedded(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	defer db.Close()

	migrations, err := assets.Migrations()
	require.NoError(t, err)
	require.NoError(t, Migrate(db, migrations))
	require.NoError(t, Migrate(db, migrations), "second run is a no-op")

	for _, table := range []string{"users", "games", "daily_results"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestMigrateOrderAndFailure(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"002_fill.sql":   {Data: []byte(`INSERT INTO t(v) VALUES (1);`)},
		"001_create.sql": {Data: []byte(`CREATE TABLE t (v INTEGER);`)},
		"README.md":      {Data: []byte(`not a migration`)},
	}
	require.NoError(t, Migrate(db, fsys))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)

	fsys["003_broken.sql"] = &fstest.MapFile{Data: []byte(`INSERT INTO missing VALUES (1);`)}
	assert.Error(t, Migrate(db, fsys))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n, "failed migration is not recorded")
}
