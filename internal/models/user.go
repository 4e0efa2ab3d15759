package models

import "time"

// User API 用户，密码以 bcrypt 哈希保存
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:150;not null;uniqueIndex"`
	Email        string    `gorm:"size:254"`
	FirstName    string    `gorm:"size:150"`
	LastName     string    `gorm:"size:150"`
	IsActive     bool      `gorm:"not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	DateJoined   time.Time `gorm:"autoCreateTime;not null"`
}

func (User) TableName() string {
	return "users"
}

// All returns every model managed by AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Course{},
		&AIConfiguration{},
		&Interaction{},
	}
}
