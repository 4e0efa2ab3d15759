package repository

import (
	"context"

	"github.com/cognicursos/backend-go/internal/models"
	"gorm.io/gorm"
)

// Repository 基础仓库接口
type Repository interface {
	GetDB() *gorm.DB
}

// ListOptions 列表查询的通用参数
type ListOptions struct {
	// Search 按空白切分，每个词至少匹配一个字段
	Search string
	// Ordering 白名单字段，"-" 前缀表示倒序
	Ordering string
}

// CourseFilter 课程列表过滤条件，nil 表示不过滤
type CourseFilter struct {
	ListOptions
	CategoryID *uint
	Level      *models.Level
	Active     *bool
}

// InteractionFilter 问答记录过滤条件
type InteractionFilter struct {
	ListOptions
	CourseID *uint
}

// CategoryRepository 分类仓库接口
type CategoryRepository interface {
	Repository
	List(ctx context.Context, opts ListOptions) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Save(ctx context.Context, category *models.Category) error
	// Delete 同时删除该分类下的课程及其问答记录
	Delete(ctx context.Context, id uint) error
}

// CourseRepository 课程仓库接口
type CourseRepository interface {
	Repository
	List(ctx context.Context, filter CourseFilter) ([]models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Save(ctx context.Context, course *models.Course) error
	// Delete 同时删除课程的问答记录
	Delete(ctx context.Context, id uint) error
}

// AIConfigurationRepository 模型配置仓库接口
type AIConfigurationRepository interface {
	Repository
	List(ctx context.Context, opts ListOptions) ([]models.AIConfiguration, error)
	GetByID(ctx context.Context, id uint) (*models.AIConfiguration, error)
	// GetActiveByID 仅返回启用状态的配置
	GetActiveByID(ctx context.Context, id uint) (*models.AIConfiguration, error)
	// FirstActive 按名称排序的第一个启用配置
	FirstActive(ctx context.Context) (*models.AIConfiguration, error)
	Create(ctx context.Context, cfg *models.AIConfiguration) error
	Save(ctx context.Context, cfg *models.AIConfiguration) error
	// Delete 保留问答记录，引用置空
	Delete(ctx context.Context, id uint) error
}

// InteractionRepository 问答记录仓库接口（只追加）
type InteractionRepository interface {
	Repository
	List(ctx context.Context, filter InteractionFilter) ([]models.Interaction, error)
	GetByID(ctx context.Context, id uint) (*models.Interaction, error)
	Create(ctx context.Context, interaction *models.Interaction) error
}

// UserRepository 用户仓库接口
type UserRepository interface {
	Repository
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}
