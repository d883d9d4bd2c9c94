package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/dockyard/internal/database/repository"
)

func TestMigrateAndSeed(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Open(filepath.Join(t.TempDir(), "nested", "dockyard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrationsWithDB(db))
	require.NoError(t, RunMigrationsWithDB(db), "second run is a no-op")

	require.NoError(t, SeedDefaults(ctx, db))
	repo := repository.NewLayoutRepo(db)
	layouts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, layouts, 4)

	std, err := repo.GetByName(ctx, "standard")
	require.NoError(t, err)
	require.Contains(t, std.Config, `"componentType": "Boolean"`)

	// A user copy under a seeded name survives reseeding.
	std.Config = `{"root":{"type":"component","componentType":"Text"}}`
	std.UpdatedAt = Now()
	require.NoError(t, repo.Upsert(ctx, std))
	require.NoError(t, SeedDefaults(ctx, db))
	again, err := repo.GetByName(ctx, "standard")
	require.NoError(t, err)
	require.Equal(t, std.Config, again.Config)

	_, err = repo.GetByName(ctx, "nope")
	require.True(t, repository.IsNotFound(err))
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrationsWithDB(db))

	repo := repository.NewLayoutRepo(db)
	err = WithTx(db, func(tx *sql.Tx) error {
		if err := repo.WithTx(tx).Upsert(ctx, repository.SavedLayout{ID: "a", Name: "a", Config: "{}", CreatedAt: Now(), UpdatedAt: Now()}); err != nil {
			return err
		}
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)
	layouts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, layouts)
}

var errRollback = errors.New("rollback")
