package repository

import (
	"context"

	"github.com/cognicursos/backend-go/internal/models"
	"gorm.io/gorm"
)

var aiConfigurationOrdering = map[string]string{
	"nome":         "ai_configurations.name",
	"data_criacao": "ai_configurations.created_at",
}

type aiConfigurationRepository struct {
	db *gorm.DB
}

// NewAIConfigurationRepository 创建模型配置仓库
func NewAIConfigurationRepository(db *gorm.DB) AIConfigurationRepository {
	return &aiConfigurationRepository{db: db}
}

func (r *aiConfigurationRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *aiConfigurationRepository) List(ctx context.Context, opts ListOptions) ([]models.AIConfiguration, error) {
	var configs []models.AIConfiguration
	query := r.db.WithContext(ctx).Model(&models.AIConfiguration{})
	query = applySearch(query, opts.Search, "ai_configurations.name", "ai_configurations.description", "ai_configurations.model")
	query = applyOrdering(query, opts.Ordering, aiConfigurationOrdering, "ai_configurations.name ASC, ai_configurations.id ASC", "ai_configurations.id")
	if err := query.Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *aiConfigurationRepository) GetByID(ctx context.Context, id uint) (*models.AIConfiguration, error) {
	var cfg models.AIConfiguration
	if err := r.db.WithContext(ctx).First(&cfg, id).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *aiConfigurationRepository) GetActiveByID(ctx context.Context, id uint) (*models.AIConfiguration, error) {
	var cfg models.AIConfiguration
	err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *aiConfigurationRepository) FirstActive(ctx context.Context) (*models.AIConfiguration, error) {
	var cfg models.AIConfiguration
	err := r.db.WithContext(ctx).Where("active = ?", true).
		Order("name ASC").Order("id ASC").
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *aiConfigurationRepository) Create(ctx context.Context, cfg *models.AIConfiguration) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *aiConfigurationRepository) Save(ctx context.Context, cfg *models.AIConfiguration) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

func (r *aiConfigurationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Interaction{}).
			Where("ai_configuration_id = ?", id).
			Update("ai_configuration_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.AIConfiguration{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
