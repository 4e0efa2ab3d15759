// Package testutil provides helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/cognicursos/backend-go/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an isolated in-memory SQLite database with the schema
// migrated and foreign keys enforced.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// SeedCategory inserts a category with the given name.
func SeedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Description: "Descrição de " + name}
	require.NoError(t, db.Create(category).Error)
	return category
}

// SeedCourse inserts an active basic-level course in the category.
func SeedCourse(t *testing.T, db *gorm.DB, category *models.Category, title string) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:       title,
		Description: "Curso completo de " + title,
		CategoryID:  category.ID,
		Level:       models.LevelBasic,
		Hours:       10,
		Active:      true,
	}
	require.NoError(t, db.Omit("Category").Create(course).Error)
	course.Category = category
	return course
}

// SeedAIConfiguration inserts an AI configuration.
func SeedAIConfiguration(t *testing.T, db *gorm.DB, name string, active bool) *models.AIConfiguration {
	t.Helper()
	cfg := &models.AIConfiguration{
		Name:        name,
		Provider:    models.ProviderDeepSeek,
		Model:       models.ModelDeepSeekChat,
		Temperature: models.DefaultTemperature,
		MaxTokens:   models.DefaultMaxTokens,
		APIKey:      "sk-test",
		Active:      active,
	}
	require.NoError(t, db.Create(cfg).Error)
	return cfg
}
