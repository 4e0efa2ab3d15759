package errors

import (
	"errors"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-migrate/migrate/v4"
	"gorm.io/gorm"
)

// ErrorTranslator 错误转换器
type ErrorTranslator struct{}

func NewErrorTranslator() *ErrorTranslator {
	return &ErrorTranslator{}
}

// Translate 将各种类型的错误转换为 AppError
func (t *ErrorTranslator) Translate(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return t.translateValidationErrors(validationErrors)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("Registro não encontrado.").WithCause(err)
	}

	var netErr *net.OpError
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewSystemError(ErrCodeTimeout, "Operation timed out").WithCause(err)
		}
		return NewSystemError(ErrCodeExternalService, "Network error").WithCause(err)
	}

	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		return NewSystemError(ErrCodeDatabaseError, "Database migration in dirty state").WithCause(err)
	}

	if t.isDatabaseError(err) {
		return t.translateDatabaseError(err)
	}

	return NewSystemError(ErrCodeInternalServer, "Internal server error").WithCause(err)
}

// translateValidationErrors 转换验证错误，字段名取自 json 标签
func (t *ErrorTranslator) translateValidationErrors(validationErrors validator.ValidationErrors) *AppError {
	fields := make(map[string]string, len(validationErrors))
	var first string
	for _, fe := range validationErrors {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		msg := ValidationMessage(fe)
		fields[name] = msg
		if first == "" {
			first = name + ": " + msg
		}
	}
	return NewValidationError(first).WithDetails(fields)
}

func (t *ErrorTranslator) translateDatabaseError(err error) *AppError {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "duplicate key value"),
		strings.Contains(msg, "violates unique constraint"),
		strings.Contains(msg, "unique constraint failed"):
		return NewBusinessError(ErrCodeConflict, "Registro já existe.").WithCause(err)
	case strings.Contains(msg, "foreign key"):
		return NewBusinessError(ErrCodeBadRequest, "Referência inválida.").WithCause(err)
	case strings.Contains(msg, "not-null constraint"), strings.Contains(msg, "not null constraint"):
		return NewBusinessError(ErrCodeBadRequest, "Campo obrigatório ausente.").WithCause(err)
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"):
		return NewSystemError(ErrCodeConnectionFailed, "Database connection failed").WithCause(err)
	}
	return NewDatabaseError("Database operation failed", err)
}

func (t *ErrorTranslator) isDatabaseError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, keyword := range []string{"pq:", "sqlstate", "sqlite", "constraint", "foreign key", "duplicate", "relation", "database"} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// ValidationMessage 返回单个字段的用户可读信息
func ValidationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo é obrigatório."
	case "max":
		return "Certifique-se de que este campo não tenha mais de " + fe.Param() + " caracteres."
	case "min":
		return "Certifique-se de que este campo tenha no mínimo " + fe.Param() + " caracteres."
	case "gte":
		return "Certifique-se de que este valor seja maior ou igual a " + fe.Param() + "."
	case "lte":
		return "Certifique-se de que este valor seja menor ou igual a " + fe.Param() + "."
	case "oneof":
		return "Escolha inválida. Opções: " + fe.Param() + "."
	case "email":
		return "Insira um endereço de email válido."
	default:
		return "Valor inválido."
	}
}

// Wrap 包装错误为系统错误
func (t *ErrorTranslator) Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return NewSystemError(code, message).WithCause(err)
}
