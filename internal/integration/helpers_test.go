package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"taskboard/internal/db"
	"taskboard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// openDB migrates and seeds the database at DATABASE_URL. Tests are skipped
// when it is not set.
func openDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	require.NoError(t, db.Migrate(dsn))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := db.Connect(ctx, dsn, 5)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Seed(ctx, pool, db.SeedOptions{}))
	return pool
}

// uniqueEmail keeps reruns against the same database independent.
func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@example.com"
}

func statusByName(t *testing.T, statuses []domain.TaskStatus, name string) domain.TaskStatus {
	t.Helper()
	for _, st := range statuses {
		if st.Name == name {
			return st
		}
	}
	t.Fatalf("status %q not seeded", name)
	return domain.TaskStatus{}
}
