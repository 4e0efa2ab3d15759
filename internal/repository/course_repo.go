package repository

import (
	"context"

	"github.com/cognicursos/backend-go/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var courseOrdering = map[string]string{
	"titulo":          "courses.title",
	"data_publicacao": "courses.published_at",
	"carga_horaria":   "courses.hours",
	"nivel":           "courses.level",
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository 创建课程仓库
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	var courses []models.Course

	query := r.db.WithContext(ctx).Model(&models.Course{}).
		Joins("JOIN categories ON categories.id = courses.category_id").
		Preload("Category")

	if filter.CategoryID != nil {
		query = query.Where("courses.category_id = ?", *filter.CategoryID)
	}
	if filter.Level != nil {
		query = query.Where("courses.level = ?", *filter.Level)
	}
	if filter.Active != nil {
		query = query.Where("courses.active = ?", *filter.Active)
	}
	query = applySearch(query, filter.Search, "courses.title", "courses.description", "categories.name")
	query = applyOrdering(query, filter.Ordering, courseOrdering, "courses.published_at DESC, courses.id DESC", "courses.id")

	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Category").First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(course).Error
}

func (r *courseRepository) Save(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.Interaction{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Course{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
