package services

import (
	"time"

	"github.com/cognicursos/backend-go/internal/models"
)

// Request bodies. Pointer fields distinguish "absent" from zero values so
// that PUT and PATCH only touch what the client sent.

type CategoryInput struct {
	Nome      *string `json:"nome"`
	Descricao *string `json:"descricao"`
}

type CourseInput struct {
	Titulo       *string `json:"titulo"`
	Descricao    *string `json:"descricao"`
	Categoria    *uint   `json:"categoria"`
	Nivel        *string `json:"nivel"`
	CargaHoraria *int    `json:"carga_horaria"`
	Ativo        *bool   `json:"ativo"`
}

type AIConfigurationInput struct {
	Nome        *string  `json:"nome"`
	Descricao   *string  `json:"descricao"`
	Provedor    *string  `json:"provedor"`
	Modelo      *string  `json:"modelo"`
	Temperatura *float64 `json:"temperatura"`
	MaxTokens   *int     `json:"max_tokens"`
	ChaveAPI    *string  `json:"chave_api"`
	Ativo       *bool    `json:"ativo"`
}

type UserInput struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	IsActive  *bool   `json:"is_active"`
	Password  *string `json:"password"`
}

// AskInput is the body of POST /api/cursos/:id/perguntar. CursoID is
// accepted for compatibility and ignored; the URL identifies the course.
type AskInput struct {
	Pergunta       string `json:"pergunta" validate:"required,max=2000"`
	ConfiguracaoID *uint  `json:"configuracao_id"`
	Contexto       string `json:"contexto" validate:"max=5000"`
	CursoID        *uint  `json:"curso_id"`
}

// Responses.

type CategoryResponse struct {
	ID          uint      `json:"id"`
	Nome        string    `json:"nome"`
	Descricao   string    `json:"descricao"`
	DataCriacao time.Time `json:"data_criacao"`
}

func NewCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Nome:        c.Name,
		Descricao:   c.Description,
		DataCriacao: c.CreatedAt,
	}
}

type CourseResponse struct {
	ID              uint      `json:"id"`
	Titulo          string    `json:"titulo"`
	Descricao       string    `json:"descricao"`
	DataPublicacao  time.Time `json:"data_publicacao"`
	DataAtualizacao time.Time `json:"data_atualizacao"`
	Categoria       uint      `json:"categoria"`
	CategoriaNome   string    `json:"categoria_nome"`
	Nivel           string    `json:"nivel"`
	CargaHoraria    int       `json:"carga_horaria"`
	Ativo           bool      `json:"ativo"`
}

func NewCourseResponse(c *models.Course) CourseResponse {
	resp := CourseResponse{
		ID:              c.ID,
		Titulo:          c.Title,
		Descricao:       c.Description,
		DataPublicacao:  c.PublishedAt,
		DataAtualizacao: c.UpdatedAt,
		Categoria:       c.CategoryID,
		Nivel:           string(c.Level),
		CargaHoraria:    c.Hours,
		Ativo:           c.Active,
	}
	if c.Category != nil {
		resp.CategoriaNome = c.Category.Name
	}
	return resp
}

// AIConfigurationResponse never carries the API key.
type AIConfigurationResponse struct {
	ID              uint      `json:"id"`
	Nome            string    `json:"nome"`
	Descricao       string    `json:"descricao"`
	Provedor        string    `json:"provedor"`
	Modelo          string    `json:"modelo"`
	Temperatura     float64   `json:"temperatura"`
	MaxTokens       int       `json:"max_tokens"`
	Ativo           bool      `json:"ativo"`
	DataCriacao     time.Time `json:"data_criacao"`
	DataAtualizacao time.Time `json:"data_atualizacao"`
}

func NewAIConfigurationResponse(c *models.AIConfiguration) AIConfigurationResponse {
	return AIConfigurationResponse{
		ID:              c.ID,
		Nome:            c.Name,
		Descricao:       c.Description,
		Provedor:        string(c.Provider),
		Modelo:          c.Model,
		Temperatura:     c.Temperature,
		MaxTokens:       c.MaxTokens,
		Ativo:           c.Active,
		DataCriacao:     c.CreatedAt,
		DataAtualizacao: c.UpdatedAt,
	}
}

type InteractionResponse struct {
	ID               uint      `json:"id"`
	Curso            uint      `json:"curso"`
	CursoTitulo      string    `json:"curso_titulo"`
	ConfiguracaoIA   *uint     `json:"configuracao_ia"`
	ConfiguracaoNome *string   `json:"configuracao_nome"`
	Pergunta         string    `json:"pergunta"`
	Resposta         string    `json:"resposta"`
	TokensUtilizados int       `json:"tokens_utilizados"`
	DataCriacao      time.Time `json:"data_criacao"`
}

func NewInteractionResponse(i *models.Interaction) InteractionResponse {
	resp := InteractionResponse{
		ID:               i.ID,
		Curso:            i.CourseID,
		ConfiguracaoIA:   i.AIConfigurationID,
		Pergunta:         i.Question,
		Resposta:         i.Answer,
		TokensUtilizados: i.TokensUsed,
		DataCriacao:      i.CreatedAt,
	}
	if i.Course != nil {
		resp.CursoTitulo = i.Course.Title
	}
	if i.AIConfiguration != nil {
		name := i.AIConfiguration.Name
		resp.ConfiguracaoNome = &name
	}
	return resp
}

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
	}
}

// AskResponse is returned by the question endpoint.
type AskResponse struct {
	Resposta         string `json:"resposta"`
	InteracaoID      uint   `json:"interacao_id"`
	TokensUtilizados int    `json:"tokens_utilizados"`
	Modo             string `json:"modo"`
}

// TokenResponse is returned by the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func mapSlice[T any, R any](in []T, f func(*T) R) []R {
	out := make([]R, len(in))
	for i := range in {
		out[i] = f(&in[i])
	}
	return out
}
