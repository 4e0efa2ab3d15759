package services

import (
	"maps"
	"reflect"
	"slices"
	"strings"

	apperrors "github.com/cognicursos/backend-go/internal/errors"
	"github.com/go-playground/validator/v10"
)

// Validator wraps validator/v10 so that field errors are keyed by the JSON
// field name the client sent.
type Validator struct {
	validate   *validator.Validate
	translator *apperrors.ErrorTranslator
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: v, translator: apperrors.NewErrorTranslator()}
}

// Struct validates s and returns a VALIDATION_FAILED AppError with one
// message per offending field.
func (v *Validator) Struct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return v.translator.Translate(err)
	}
	return nil
}

// fieldErrors collects field messages added by hand, e.g. missing references.
type fieldErrors map[string]string

func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

// merge combines a validator error with hand-collected field errors.
func (f fieldErrors) merge(err error) error {
	if err == nil && len(f) == 0 {
		return nil
	}
	if err != nil && !apperrors.IsAppError(err) {
		return err
	}
	fields := map[string]string{}
	if err != nil {
		for k, msg := range apperrors.GetAppError(err).FieldErrors() {
			fields[k] = msg
		}
	}
	for k, msg := range f {
		if _, exists := fields[k]; !exists {
			fields[k] = msg
		}
	}
	if len(fields) == 0 {
		return err
	}
	first := slices.Sorted(maps.Keys(fields))[0]
	return apperrors.NewValidationError(first + ": " + fields[first]).WithDetails(fields)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
