package database

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgres("postgresql://localhost/db"))
	assert.False(t, IsPostgres("travelhub.db"))
	assert.False(t, IsPostgres("file::memory:?cache=shared"))
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:migrate_%s?mode=memory&cache=shared", t.Name())
	db, err := Connect(dsn, 0, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"auth_identities", "users", "agents", "packages", "bookings", "notifications", "activity_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// idempotent
	require.NoError(t, Migrate(db))
}
