package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Devan019/GenJob/internal/config"
	"github.com/Devan019/GenJob/internal/storage/models"
)

// ErrJobPostingNotFound 岗位不存在
var ErrJobPostingNotFound = errors.New("job posting not found")

// MySQL 岗位发布的关系型存储
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL连接并迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	// 构建DSN，带超时设置
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	var logLevel logger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = logger.Silent
	case 2:
		logLevel = logger.Error
	case 3:
		logLevel = logger.Warn
	case 4:
		logLevel = logger.Info
	default:
		logLevel = logger.Warn
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	if err := db.AutoMigrate(&models.JobPosting{}); err != nil {
		return nil, fmt.Errorf("迁移岗位表失败: %w", err)
	}

	return &MySQL{db: db, cfg: cfg}, nil
}

// DB 暴露底层gorm句柄
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// CreateJobPosting 创建岗位，JobID为空时自动生成UUIDv7
func (m *MySQL) CreateJobPosting(ctx context.Context, posting *models.JobPosting) error {
	if posting == nil {
		return fmt.Errorf("posting cannot be nil")
	}
	if posting.JobID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("生成岗位ID失败: %w", err)
		}
		posting.JobID = id.String()
	}
	if posting.Status == "" {
		posting.Status = "ACTIVE"
	}

	if err := m.db.WithContext(ctx).Create(posting).Error; err != nil {
		return fmt.Errorf("创建岗位失败: %w", err)
	}
	return nil
}

// GetJobPosting 按ID查询岗位
func (m *MySQL) GetJobPosting(ctx context.Context, jobID string) (*models.JobPosting, error) {
	var posting models.JobPosting
	err := m.db.WithContext(ctx).Where("job_id = ?", jobID).First(&posting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobPostingNotFound
		}
		return nil, fmt.Errorf("查询岗位失败: %w", err)
	}
	return &posting, nil
}

// ListJobPostings 按创建时间倒序分页列出岗位
func (m *MySQL) ListJobPostings(ctx context.Context, limit, offset int) ([]models.JobPosting, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var postings []models.JobPosting
	err := m.db.WithContext(ctx).
		Where("status = ?", "ACTIVE").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&postings).Error
	if err != nil {
		return nil, fmt.Errorf("列出岗位失败: %w", err)
	}
	return postings, nil
}

// DeleteJobPosting 软删除岗位（状态置为CLOSED）
func (m *MySQL) DeleteJobPosting(ctx context.Context, jobID string) error {
	result := m.db.WithContext(ctx).
		Model(&models.JobPosting{}).
		Where("job_id = ?", jobID).
		Update("status", "CLOSED")
	if result.Error != nil {
		return fmt.Errorf("删除岗位失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrJobPostingNotFound
	}
	return nil
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
