package models

import "time"

// ProviderSource 模型提供商
type ProviderSource string

const (
	ProviderDeepSeek ProviderSource = "deepseek"
	ProviderOpenAI   ProviderSource = "openai"
)

// Supported model identifiers.
const (
	ModelDeepSeekChat = "deepseek-chat"
	ModelDeepSeekLite = "deepseek-lite"
	ModelDeepSeekV2   = "deepseek-v2"
	ModelGPT35Turbo   = "gpt-3.5-turbo"
	ModelGPT4         = "gpt-4"
	ModelGPT4Turbo    = "gpt-4-turbo"
)

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// AIConfiguration 大模型调用配置。APIKey 只写不读。
type AIConfiguration struct {
	ID          uint           `gorm:"primaryKey"`
	Name        string         `gorm:"size:100;not null;index"`
	Description string         `gorm:"type:text"`
	Provider    ProviderSource `gorm:"size:20;not null"`
	Model       string         `gorm:"size:50;not null"`
	Temperature float64        `gorm:"not null"`
	MaxTokens   int            `gorm:"not null"`
	APIKey      string         `gorm:"size:255"`
	Active      bool           `gorm:"not null;index"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

func (AIConfiguration) TableName() string {
	return "ai_configurations"
}

// Interaction 问答记录，创建后不可修改
type Interaction struct {
	ID                uint      `gorm:"primaryKey"`
	CourseID          uint      `gorm:"not null;index"`
	AIConfigurationID *uint     `gorm:"index"`
	Question          string    `gorm:"type:text;not null"`
	Answer            string    `gorm:"type:text;not null"`
	TokensUsed        int       `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"not null;index"`

	Course          *Course          `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	AIConfiguration *AIConfiguration `gorm:"foreignKey:AIConfigurationID;constraint:OnDelete:SET NULL"`
}

func (Interaction) TableName() string {
	return "interactions"
}
