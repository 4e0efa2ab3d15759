package services

import (
	"context"
	"fmt"

	"github.com/cognicursos/backend-go/internal/models"
	"github.com/cognicursos/backend-go/internal/repository"
	"go.uber.org/zap"
)

type courseFields struct {
	Titulo       string `json:"titulo" validate:"required,max=200"`
	Descricao    string `json:"descricao" validate:"required"`
	Categoria    uint   `json:"categoria" validate:"required"`
	Nivel        string `json:"nivel" validate:"oneof=B I A"`
	CargaHoraria int    `json:"carga_horaria" validate:"gte=0"`
}

// CourseService 课程管理
type CourseService struct {
	repo       repository.CourseRepository
	categories repository.CategoryRepository
	validator  *Validator
	logger     *zap.Logger
}

func NewCourseService(repo repository.CourseRepository, categories repository.CategoryRepository, validator *Validator, logger *zap.Logger) *CourseService {
	return &CourseService{repo: repo, categories: categories, validator: validator, logger: logger}
}

func (s *CourseService) List(ctx context.Context, filter repository.CourseFilter) ([]CourseResponse, error) {
	courses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, repoError(err, msgCourseNotFound)
	}
	return mapSlice(courses, NewCourseResponse), nil
}

func (s *CourseService) Get(ctx context.Context, id uint) (*CourseResponse, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, msgCourseNotFound)
	}
	resp := NewCourseResponse(course)
	return &resp, nil
}

// Create applies the defaults nivel=B and ativo=true when absent.
func (s *CourseService) Create(ctx context.Context, in CourseInput) (*CourseResponse, error) {
	course := &models.Course{Level: models.LevelBasic, Active: true}
	if err := s.apply(ctx, course, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, repoError(err, msgCourseNotFound)
	}
	s.logger.Info("Course created", zap.Uint("course_id", course.ID), zap.Uint("category_id", course.CategoryID))
	return s.Get(ctx, course.ID)
}

func (s *CourseService) Update(ctx context.Context, id uint, in CourseInput) (*CourseResponse, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, msgCourseNotFound)
	}
	if err := s.apply(ctx, course, in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, course); err != nil {
		return nil, repoError(err, msgCourseNotFound)
	}
	return s.Get(ctx, course.ID)
}

// Delete removes the course and its interactions.
func (s *CourseService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, msgCourseNotFound)
	}
	s.logger.Info("Course deleted", zap.Uint("course_id", id))
	return nil
}

func (s *CourseService) apply(ctx context.Context, course *models.Course, in CourseInput) error {
	if v := trimmed(in.Titulo); v != nil {
		course.Title = *v
	}
	if in.Descricao != nil {
		course.Description = *in.Descricao
	}
	if in.Categoria != nil {
		course.CategoryID = *in.Categoria
	}
	if in.Nivel != nil {
		course.Level = models.Level(*in.Nivel)
	}
	if in.CargaHoraria != nil {
		course.Hours = *in.CargaHoraria
	}
	if in.Ativo != nil {
		course.Active = *in.Ativo
	}

	err := s.validator.Struct(courseFields{
		Titulo:       course.Title,
		Descricao:    course.Description,
		Categoria:    course.CategoryID,
		Nivel:        string(course.Level),
		CargaHoraria: course.Hours,
	})

	extra := fieldErrors{}
	if course.CategoryID != 0 {
		exists, lookupErr := s.categories.Exists(ctx, course.CategoryID)
		if lookupErr != nil {
			return repoError(lookupErr, msgCategoryNotFound)
		}
		if !exists {
			extra.add("categoria", fmt.Sprintf("Pk inválido \"%d\" - objeto não existe.", course.CategoryID))
		}
	}
	return extra.merge(err)
}
