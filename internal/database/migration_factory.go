package database

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// MigrationManagerFactory 迁移管理器工厂
type MigrationManagerFactory struct {
	migrationPath string
	logger        *logrus.Logger
}

// NewMigrationManagerFactory 创建迁移管理器工厂
func NewMigrationManagerFactory(migrationPath string, logger *logrus.Logger) *MigrationManagerFactory {
	if migrationPath == "" {
		migrationPath = "./migrations"
	}

	// 确保路径是绝对路径
	if absPath, err := filepath.Abs(migrationPath); err == nil {
		migrationPath = absPath
	}

	return &MigrationManagerFactory{
		migrationPath: migrationPath,
		logger:        logger,
	}
}

// CreateManager 基于已有连接创建迁移管理器
func (f *MigrationManagerFactory) CreateManager(db *sql.DB) (*MigrationManager, error) {
	return NewMigrationManager(db, f.migrationPath, f.logger)
}

// Connect 通过 lib/pq 打开连接并创建迁移管理器，调用方负责关闭
func (f *MigrationManagerFactory) Connect(databaseURL string) (*MigrationManager, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	mm, err := f.CreateManager(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return mm, nil
}

// GetMigrationPath 获取迁移文件路径
func (f *MigrationManagerFactory) GetMigrationPath() string {
	return f.migrationPath
}
