package database

import (
	"fmt"
	"testing"

	"github.com/cognicursos/backend-go/internal/config"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	d, err := Dialector(config.DatabaseConfig{Driver: "postgres", URL: "postgresql://localhost/x"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialector(config.DatabaseConfig{Driver: "SQLite", URL: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:       DriverSQLite,
		URL:          fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		MaxOpenConns: 1,
	}
	db, err := Open(cfg, quietLogger())
	require.NoError(t, err)
	defer Close(db)

	for _, table := range []string{"users", "categories", "courses", "ai_configurations", "interactions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	require.NoError(t, NewPoolCollector(sqlDB, quietLogger()).Register(reg))
	count, err := promtestutil.GatherAndCount(reg, "cognicursos_db_connections")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
