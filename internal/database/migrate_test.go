package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/wc", pgx5URL("postgres://u:p@db:5432/wc"))
	assert.Equal(t, "pgx5://u:p@db/wc", pgx5URL("postgresql://u:p@db/wc"))
	assert.Equal(t, "pgx5://already", pgx5URL("pgx5://already"))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	assert.Equal(t, ups, downs)
}

func TestInitialMigrationCreatesRequiredTables(t *testing.T) {
	raw, err := fs.ReadFile(migrationFiles, "migrations/000001_init.up.sql")
	require.NoError(t, err)

	sql := string(raw)
	for _, table := range requiredTables {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table+" ", table)
	}
}

func TestCompactSQL(t *testing.T) {
	assert.Equal(t, "SELECT 1 FROM users", compactSQL("SELECT 1\n\t  FROM   users"))
	long := strings.Repeat("x", maxLoggedSQL+10)
	assert.True(t, strings.HasSuffix(compactSQL(long), "..."))
}
