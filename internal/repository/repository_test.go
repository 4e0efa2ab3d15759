package repository

import (
	"context"
	"testing"

	"github.com/cognicursos/backend-go/internal/models"
	"github.com/cognicursos/backend-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func titles(courses []models.Course) []string {
	out := make([]string, len(courses))
	for i, c := range courses {
		out[i] = c.Title
	}
	return out
}

func TestCourseRepository_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	prog := testutil.SeedCategory(t, db, "Programação")
	design := testutil.SeedCategory(t, db, "Design")

	python := testutil.SeedCourse(t, db, prog, "Python")
	golang := testutil.SeedCourse(t, db, prog, "Go Avançado")
	figma := testutil.SeedCourse(t, db, design, "Figma")
	require.NoError(t, db.Model(golang).Updates(map[string]interface{}{"level": "A", "active": false}).Error)

	repo := NewCourseRepository(db)

	active := true
	got, err := repo.List(ctx, CourseFilter{Active: &active})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{python.Title, figma.Title}, titles(got))

	got, err = repo.List(ctx, CourseFilter{CategoryID: &prog.ID, Active: &active})
	require.NoError(t, err)
	assert.Equal(t, []string{"Python"}, titles(got))

	level := models.LevelAdvanced
	got, err = repo.List(ctx, CourseFilter{Level: &level})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go Avançado"}, titles(got))
	require.NotNil(t, got[0].Category)
	assert.Equal(t, "Programação", got[0].Category.Name)
}

func TestCourseRepository_SearchAndOrdering(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	prog := testutil.SeedCategory(t, db, "Programação")
	design := testutil.SeedCategory(t, db, "Design")
	testutil.SeedCourse(t, db, prog, "Python Básico")
	testutil.SeedCourse(t, db, prog, "Java")
	testutil.SeedCourse(t, db, design, "Python para Designers")

	repo := NewCourseRepository(db)

	// every term must match some field; category name is searchable
	got, err := repo.List(ctx, CourseFilter{ListOptions: ListOptions{Search: "PYTHON design", Ordering: "titulo"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Python para Designers"}, titles(got))

	got, err = repo.List(ctx, CourseFilter{ListOptions: ListOptions{Ordering: "-titulo"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Python para Designers", "Python Básico", "Java"}, titles(got))

	// unknown ordering falls back to newest first
	got, err = repo.List(ctx, CourseFilter{ListOptions: ListOptions{Ordering: "senha"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Python para Designers", "Java", "Python Básico"}, titles(got))

	got, err = repo.List(ctx, CourseFilter{ListOptions: ListOptions{Search: "100%"}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCategoryRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	prog := testutil.SeedCategory(t, db, "Programação")
	other := testutil.SeedCategory(t, db, "Outros")
	course := testutil.SeedCourse(t, db, prog, "Python")
	kept := testutil.SeedCourse(t, db, other, "Excel")

	interactions := NewInteractionRepository(db)
	require.NoError(t, interactions.Create(ctx, &models.Interaction{CourseID: course.ID, Question: "q", Answer: "a", TokensUsed: 2}))
	require.NoError(t, interactions.Create(ctx, &models.Interaction{CourseID: kept.ID, Question: "q", Answer: "a", TokensUsed: 2}))

	repo := NewCategoryRepository(db)
	require.NoError(t, repo.Delete(ctx, prog.ID))

	var courses, remaining int64
	require.NoError(t, db.Model(&models.Course{}).Count(&courses).Error)
	require.NoError(t, db.Model(&models.Interaction{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, courses)
	assert.EqualValues(t, 1, remaining)

	assert.ErrorIs(t, repo.Delete(ctx, prog.ID), gorm.ErrRecordNotFound)
}

func TestAIConfigurationRepository_DeleteKeepsInteractions(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	course := testutil.SeedCourse(t, db, testutil.SeedCategory(t, db, "Programação"), "Python")
	cfg := testutil.SeedAIConfiguration(t, db, "Padrão", true)

	interactions := NewInteractionRepository(db)
	interaction := &models.Interaction{CourseID: course.ID, AIConfigurationID: &cfg.ID, Question: "q", Answer: "a"}
	require.NoError(t, interactions.Create(ctx, interaction))

	require.NoError(t, NewAIConfigurationRepository(db).Delete(ctx, cfg.ID))

	got, err := interactions.GetByID(ctx, interaction.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AIConfigurationID)
	assert.Nil(t, got.AIConfiguration)
	require.NotNil(t, got.Course)
	assert.Equal(t, "Python", got.Course.Title)
}

func TestAIConfigurationRepository_ActiveLookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	inactive := testutil.SeedAIConfiguration(t, db, "Antiga", false)
	testutil.SeedAIConfiguration(t, db, "Zeta", true)
	beta := testutil.SeedAIConfiguration(t, db, "Beta", true)

	repo := NewAIConfigurationRepository(db)

	_, err := repo.GetActiveByID(ctx, inactive.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	first, err := repo.FirstActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, beta.ID, first.ID)

	list, err := repo.List(ctx, ListOptions{Search: "zet"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Zeta", list[0].Name)
}

func TestInteractionRepository_ListByCourse(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cat := testutil.SeedCategory(t, db, "Programação")
	python := testutil.SeedCourse(t, db, cat, "Python")
	java := testutil.SeedCourse(t, db, cat, "Java")

	repo := NewInteractionRepository(db)
	require.NoError(t, repo.Create(ctx, &models.Interaction{CourseID: python.ID, Question: "O que é uma lista?", Answer: "a"}))
	require.NoError(t, repo.Create(ctx, &models.Interaction{CourseID: python.ID, Question: "O que é um loop?", Answer: "b"}))
	require.NoError(t, repo.Create(ctx, &models.Interaction{CourseID: java.ID, Question: "O que é uma classe?", Answer: "c"}))

	got, err := repo.List(ctx, InteractionFilter{CourseID: &python.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "O que é um loop?", got[0].Question)

	got, err = repo.List(ctx, InteractionFilter{ListOptions: ListOptions{Search: "java"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Answer)
}
