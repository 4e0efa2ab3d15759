package services

import (
	"errors"

	apperrors "github.com/cognicursos/backend-go/internal/errors"
	"gorm.io/gorm"
)

// Not-found messages returned to clients.
const (
	msgCategoryNotFound    = "Categoria não encontrada."
	msgCourseNotFound      = "Curso não encontrado."
	msgAIConfigNotFound    = "Configuração de IA não encontrada."
	msgInteractionNotFound = "Interação não encontrada."
	msgUserNotFound        = "Usuário não encontrado."
)

var translator = apperrors.NewErrorTranslator()

// repoError maps a repository error onto an AppError, using notFound as the
// message for missing records.
func repoError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(notFound).WithCause(err)
	}
	return translator.Translate(err)
}
