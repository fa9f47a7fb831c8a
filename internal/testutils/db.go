package testutils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nfrund/student-portal/internal/database"
)

// NewTestDB opens a migrated, private in-memory sqlite database that is
// closed when the test ends.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.OpenDialector(sqlite.Open(dsn), false)
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, database.Migrate(context.Background(), db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
