package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cognicursos/backend-go/internal/models"
	"github.com/cognicursos/backend-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func searchSQL(db *gorm.DB) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return applySearch(tx.Model(&models.Category{}), "Dados", "categories.name").Find(&[]models.Category{})
	})
}

func TestApplySearch_PostgresUsesILike(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	sql := searchSQL(db)
	assert.Contains(t, sql, "categories.name ILIKE")
	assert.Contains(t, sql, "%dados%")
	assert.NotContains(t, sql, "LOWER(")
}

func TestApplySearch_SQLiteLowersColumn(t *testing.T) {
	sql := searchSQL(testutil.NewTestDB(t))
	assert.Contains(t, sql, "LOWER(categories.name) LIKE")
	assert.Contains(t, sql, "%dados%")
	assert.NotContains(t, sql, "ILIKE")
}
