// Package storetest opens throwaway catalog stores for tests.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"catalogapi/internal/config"
	"catalogapi/internal/database"
	"catalogapi/internal/database/migration"
	"catalogapi/internal/model"
	"catalogapi/internal/repository/postgres"
)

// New returns a migrated in-memory SQLite store seeded with users in the given order. A user with
// a non-zero ID must come out with exactly that ID, so list them 1, 2, 3...
func New(t testing.TB, users ...model.User) *postgres.Store {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLite(ctx, config.DatabaseConfig{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migration.EnsureMigrated(ctx, db, database.SQLite, nil, ":memory:"))
	store := postgres.NewStore(db, database.SQLite)

	for _, u := range users {
		if u.Login == "" {
			u.Login = fmt.Sprintf("user%d", u.ID)
		}
		got, err := store.Users().Create(ctx, &u)
		require.NoError(t, err)
		if u.ID != 0 {
			require.Equal(t, u.ID, got.ID, "seed users in ID order")
		}
	}
	return store
}
