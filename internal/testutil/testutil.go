package testutil

import (
	"context"
	"database/sql"
	"io"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chessreport/internal/db"
	"github.com/vytor/chessreport/internal/logger"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	err = db.Migrate(context.Background(), sqlDB, QuietLogger())
	require.NoError(t, err, "failed to apply migrations")

	return sqlDB
}

// QuietLogger discards everything.
func QuietLogger() *logger.Logger {
	return logger.New(logger.WithOutput(io.Discard), logger.WithLevel(logger.ERROR))
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
