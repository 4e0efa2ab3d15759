package models

import "time"

// Level 课程难度
type Level string

const (
	LevelBasic        Level = "B"
	LevelIntermediate Level = "I"
	LevelAdvanced     Level = "A"
)

// Label returns the display name used in prompts and responses.
func (l Level) Label() string {
	switch l {
	case LevelBasic:
		return "Básico"
	case LevelIntermediate:
		return "Intermediário"
	case LevelAdvanced:
		return "Avançado"
	default:
		return string(l)
	}
}

// Category 课程分类
type Category struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (Category) TableName() string {
	return "categories"
}

// Course 课程
type Course struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text;not null"`
	PublishedAt time.Time `gorm:"autoCreateTime;not null;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;not null"`
	CategoryID  uint      `gorm:"not null;index"`
	Level       Level     `gorm:"size:1;not null"`
	Hours       int       `gorm:"not null"`
	Active      bool      `gorm:"not null;index"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (Course) TableName() string {
	return "courses"
}
