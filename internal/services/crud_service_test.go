package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/cognicursos/backend-go/internal/auth"
	apperrors "github.com/cognicursos/backend-go/internal/errors"
	"github.com/cognicursos/backend-go/internal/models"
	"github.com/cognicursos/backend-go/internal/repository"
	"github.com/cognicursos/backend-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

func TestCategoryService_CreateAndValidate(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db), NewValidator(), zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, CategoryInput{Nome: ptr("  Programação "), Descricao: ptr("Cursos de código")})
	require.NoError(t, err)
	assert.Equal(t, "Programação", created.Nome)
	assert.False(t, created.DataCriacao.IsZero())

	_, err = svc.Create(ctx, CategoryInput{})
	require.Error(t, err)
	assert.Equal(t, "Este campo é obrigatório.", apperrors.GetAppError(err).FieldErrors()["nome"])

	_, err = svc.Create(ctx, CategoryInput{Nome: ptr(strings.Repeat("x", 101))})
	require.Error(t, err)
	assert.Contains(t, apperrors.GetAppError(err).FieldErrors(), "nome")

	updated, err := svc.Update(ctx, created.ID, CategoryInput{Descricao: ptr("Nova descrição")})
	require.NoError(t, err)
	assert.Equal(t, "Programação", updated.Nome)
	assert.Equal(t, "Nova descrição", updated.Descricao)

	_, err = svc.Get(ctx, 999)
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(svc.Delete(ctx, 999)))
}

func TestCourseService_DefaultsAndReferences(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	category := testutil.SeedCategory(t, db, "Dados")
	svc := NewCourseService(repository.NewCourseRepository(db), repository.NewCategoryRepository(db), NewValidator(), zap.NewNop())

	created, err := svc.Create(ctx, CourseInput{
		Titulo:    ptr("SQL"),
		Descricao: ptr("Consultas relacionais"),
		Categoria: &category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "B", created.Nivel)
	assert.True(t, created.Ativo)
	assert.Equal(t, "Dados", created.CategoriaNome)
	assert.Equal(t, category.ID, created.Categoria)

	_, err = svc.Create(ctx, CourseInput{
		Titulo:       ptr("Sem categoria"),
		Descricao:    ptr("x"),
		Categoria:    ptr(uint(777)),
		Nivel:        ptr("Z"),
		CargaHoraria: ptr(-1),
	})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	fields := appErr.FieldErrors()
	assert.Contains(t, fields["categoria"], "777")
	assert.Contains(t, fields, "nivel")
	assert.Contains(t, fields, "carga_horaria")

	_, err = svc.Create(ctx, CourseInput{Titulo: ptr("Incompleto")})
	require.Error(t, err)
	fields = apperrors.GetAppError(err).FieldErrors()
	assert.Contains(t, fields, "descricao")
	assert.Contains(t, fields, "categoria")

	updated, err := svc.Update(ctx, created.ID, CourseInput{Ativo: ptr(false), Nivel: ptr("A")})
	require.NoError(t, err)
	assert.False(t, updated.Ativo)
	assert.Equal(t, "A", updated.Nivel)
	assert.Equal(t, "SQL", updated.Titulo)
}

func TestAIConfigurationService_KeyIsWriteOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewAIConfigurationService(repository.NewAIConfigurationRepository(db), NewValidator(), zap.NewNop())

	created, err := svc.Create(ctx, AIConfigurationInput{Nome: ptr("Principal"), ChaveAPI: ptr("sk-secreta")})
	require.NoError(t, err)
	assert.Equal(t, "deepseek", created.Provedor)
	assert.Equal(t, "deepseek-chat", created.Modelo)
	assert.Equal(t, 0.7, created.Temperatura)
	assert.Equal(t, 1000, created.MaxTokens)
	assert.True(t, created.Ativo)

	body, err := json.Marshal(created)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "sk-secreta")
	assert.NotContains(t, string(body), "chave_api")

	stored, err := repository.NewAIConfigurationRepository(db).GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "sk-secreta", stored.APIKey)

	_, err = svc.Create(ctx, AIConfigurationInput{
		Nome:        ptr("Inválida"),
		Provedor:    ptr("anthropic"),
		Modelo:      ptr("claude"),
		Temperatura: ptr(2.5),
		MaxTokens:   ptr(0),
	})
	require.Error(t, err)
	fields := apperrors.GetAppError(err).FieldErrors()
	for _, f := range []string{"provedor", "modelo", "temperatura", "max_tokens"} {
		assert.Contains(t, fields, f)
	}
}

func TestInteractionService_ReadOnlyViews(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	course := testutil.SeedCourse(t, db, testutil.SeedCategory(t, db, "Programação"), "Python")
	cfg := testutil.SeedAIConfiguration(t, db, "Padrão", true)
	repo := repository.NewInteractionRepository(db)
	require.NoError(t, repo.Create(ctx, &models.Interaction{CourseID: course.ID, AIConfigurationID: &cfg.ID, Question: "q", Answer: "a", TokensUsed: 2}))
	require.NoError(t, repo.Create(ctx, &models.Interaction{CourseID: course.ID, Question: "q2", Answer: "a2", TokensUsed: 2}))

	svc := NewInteractionService(repo)
	list, err := svc.List(ctx, repository.InteractionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "q2", list[0].Pergunta)
	assert.Nil(t, list[0].ConfiguracaoIA)
	assert.Nil(t, list[0].ConfiguracaoNome)
	assert.Equal(t, "Python", list[1].CursoTitulo)
	require.NotNil(t, list[1].ConfiguracaoNome)
	assert.Equal(t, "Padrão", *list[1].ConfiguracaoNome)
}

func TestUserService_AuthenticateAndSeed(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	issuer, err := auth.NewTokenIssuer("secret", "cognicursos", time.Hour)
	require.NoError(t, err)
	svc := NewUserService(repository.NewUserRepository(db), issuer, NewValidator(), zap.NewNop())

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "senha-forte", "admin@example.com"))
	require.NoError(t, svc.EnsureAdmin(ctx, "outro", "senha", ""))
	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)

	token, err := svc.Authenticate(ctx, "admin", "senha-forte")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.EqualValues(t, 3600, token.ExpiresIn)
	claims, err := issuer.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, claims.UserID)

	_, err = svc.Authenticate(ctx, "admin", "errada")
	assert.Equal(t, http.StatusUnauthorized, apperrors.GetAppError(err).HTTPCode)
	_, err = svc.Authenticate(ctx, "ninguem", "x")
	assert.Equal(t, http.StatusUnauthorized, apperrors.GetAppError(err).HTTPCode)

	_, err = svc.Update(ctx, users[0].ID, UserInput{IsActive: ptr(false)})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "admin", "senha-forte")
	assert.Error(t, err)

	_, err = svc.Create(ctx, UserInput{Username: ptr("semsenha")})
	require.Error(t, err)
	assert.Contains(t, apperrors.GetAppError(err).FieldErrors(), "password")

	body, err := json.Marshal(users[0])
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
}
