package services

import (
	"context"

	"github.com/cognicursos/backend-go/internal/models"
	"github.com/cognicursos/backend-go/internal/repository"
	"go.uber.org/zap"
)

type categoryFields struct {
	Nome      string `json:"nome" validate:"required,max=100"`
	Descricao string `json:"descricao"`
}

// CategoryService 分类管理
type CategoryService struct {
	repo      repository.CategoryRepository
	validator *Validator
	logger    *zap.Logger
}

func NewCategoryService(repo repository.CategoryRepository, validator *Validator, logger *zap.Logger) *CategoryService {
	return &CategoryService{repo: repo, validator: validator, logger: logger}
}

func (s *CategoryService) List(ctx context.Context, opts repository.ListOptions) ([]CategoryResponse, error) {
	categories, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, repoError(err, msgCategoryNotFound)
	}
	return mapSlice(categories, NewCategoryResponse), nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*CategoryResponse, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, msgCategoryNotFound)
	}
	resp := NewCategoryResponse(category)
	return &resp, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*CategoryResponse, error) {
	category := &models.Category{}
	if err := s.apply(category, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, repoError(err, msgCategoryNotFound)
	}
	s.logger.Info("Category created", zap.Uint("category_id", category.ID))
	resp := NewCategoryResponse(category)
	return &resp, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*CategoryResponse, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, msgCategoryNotFound)
	}
	if err := s.apply(category, in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, repoError(err, msgCategoryNotFound)
	}
	resp := NewCategoryResponse(category)
	return &resp, nil
}

// Delete removes the category together with its courses and their interactions.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, msgCategoryNotFound)
	}
	s.logger.Info("Category deleted", zap.Uint("category_id", id))
	return nil
}

func (s *CategoryService) apply(category *models.Category, in CategoryInput) error {
	if v := trimmed(in.Nome); v != nil {
		category.Name = *v
	}
	if in.Descricao != nil {
		category.Description = *in.Descricao
	}
	return s.validator.Struct(categoryFields{Nome: category.Name, Descricao: category.Description})
}
