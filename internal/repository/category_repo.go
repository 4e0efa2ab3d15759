package repository

import (
	"context"

	"github.com/cognicursos/backend-go/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var categoryOrdering = map[string]string{
	"nome":         "categories.name",
	"data_criacao": "categories.created_at",
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *categoryRepository) List(ctx context.Context, opts ListOptions) ([]models.Category, error) {
	var categories []models.Category
	query := r.db.WithContext(ctx).Model(&models.Category{})
	query = applySearch(query, opts.Search, "categories.name", "categories.description")
	query = applyOrdering(query, opts.Ordering, categoryOrdering, "categories.name ASC, categories.id ASC", "categories.id")
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
}

func (r *categoryRepository) Save(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := tx.Model(&models.Course{}).Select("id").Where("category_id = ?", id)
		if err := tx.Where("course_id IN (?)", courses).Delete(&models.Interaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Course{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
