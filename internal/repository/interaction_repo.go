package repository

import (
	"context"

	"github.com/cognicursos/backend-go/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var interactionOrdering = map[string]string{
	"data_criacao": "interactions.created_at",
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository 创建问答记录仓库
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *interactionRepository) List(ctx context.Context, filter InteractionFilter) ([]models.Interaction, error) {
	var interactions []models.Interaction

	query := r.db.WithContext(ctx).Model(&models.Interaction{}).
		Joins("JOIN courses ON courses.id = interactions.course_id").
		Preload("Course").
		Preload("AIConfiguration")

	if filter.CourseID != nil {
		query = query.Where("interactions.course_id = ?", *filter.CourseID)
	}
	query = applySearch(query, filter.Search, "interactions.question", "interactions.answer", "courses.title")
	query = applyOrdering(query, filter.Ordering, interactionOrdering, "interactions.created_at DESC, interactions.id DESC", "interactions.id")

	if err := query.Find(&interactions).Error; err != nil {
		return nil, err
	}
	return interactions, nil
}

func (r *interactionRepository) GetByID(ctx context.Context, id uint) (*models.Interaction, error) {
	var interaction models.Interaction
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("AIConfiguration").
		First(&interaction, id).Error
	if err != nil {
		return nil, err
	}
	return &interaction, nil
}

func (r *interactionRepository) Create(ctx context.Context, interaction *models.Interaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(interaction).Error
}
