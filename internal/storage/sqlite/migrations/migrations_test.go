package migrations_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/storage/sqlite/migrations"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestMigrator(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(err)
	defer db.Close()

	m, err := migrations.NewMigrator(db, log.Noop)
	require.NoError(err)

	// Empty database.
	v, err := m.Version(ctx)
	require.NoError(err)
	assert.Equal(uint(0), v)

	// Up is idempotent.
	require.NoError(m.Up(ctx))
	require.NoError(m.Up(ctx))
	v, err = m.Version(ctx)
	require.NoError(err)
	assert.Equal(uint(1), v)
	assert.True(tableExists(t, db, "generations"))

	// Down removes the schema.
	require.NoError(m.Down(ctx))
	v, err = m.Version(ctx)
	require.NoError(err)
	assert.Equal(uint(0), v)
	assert.False(tableExists(t, db, "generations"))
}

func TestMigratorCancelledContext(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	m, err := migrations.NewMigrator(db, log.Noop)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Up(ctx), context.Canceled)
}

func TestNewMigratorWithoutDB(t *testing.T) {
	_, err := migrations.NewMigrator(nil, log.Noop)
	assert.Error(t, err)
}
