package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/facturaflow/dashboard/internal/pkg/database"
	"github.com/facturaflow/dashboard/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDatabase connects to TEST_DATABASE_URL, skipping the test when it is unset
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.EnsureSchema(ctx, db))
	truncateDocuments(t, db)
	t.Cleanup(func() { truncateDocuments(t, db) })

	return db
}

func truncateDocuments(t *testing.T, db *database.DB) {
	t.Helper()
	_, err := db.Exec(context.Background(), "TRUNCATE TABLE facturas RESTART IDENTITY")
	require.NoError(t, err)
}
