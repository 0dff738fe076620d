package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Devan019/GenJob/internal/config"
	"github.com/Devan019/GenJob/internal/logger"
)

// Storage 存储管理器，聚合所有存储相关依赖
//
// 各组件按配置独立初始化：某个后端不可用不应阻止服务启动，
// 评分引擎本身不依赖任何存储。
type Storage struct {
	// 对象存储（简历文本，供远程评分服务取用）
	MinIO *MinIO

	// 键值存储（公司信息缓存）
	Redis *Redis

	// 关系型数据库（岗位发布）
	MySQL *MySQL
}

// NewStorage 创建存储管理器
// 单个组件初始化失败记录告警后继续；全部失败才返回错误
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	storage := &Storage{}
	var err error
	var initErrors []string

	if cfg.MinIO.Endpoint != "" {
		storage.MinIO, err = NewMinIO(&cfg.MinIO)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MinIO失败")
			initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
		}
	} else {
		logger.Info().Msg("MinIO未配置, 跳过初始化")
	}

	if cfg.Redis.Address != "" {
		storage.Redis, err = NewRedisAdapter(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化Redis失败")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		}
	} else {
		logger.Info().Msg("Redis未配置, 跳过初始化")
	}

	if cfg.MySQL.Host != "" {
		storage.MySQL, err = NewMySQL(&cfg.MySQL)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MySQL失败")
			initErrors = append(initErrors, fmt.Sprintf("MySQL: %v", err))
		}
	} else {
		logger.Info().Msg("MySQL未配置, 跳过初始化")
	}

	if storage.MinIO == nil && storage.Redis == nil && storage.MySQL == nil && len(initErrors) > 0 {
		return nil, fmt.Errorf("所有存储组件初始化失败: %s", strings.Join(initErrors, "; "))
	}

	if len(initErrors) > 0 {
		logger.Warn().Str("errors", strings.Join(initErrors, "; ")).Msg("部分存储组件初始化失败")
	}

	return storage, nil
}

// Close 关闭所有连接
func (s *Storage) Close() {
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭MySQL连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
	// MinIO客户端无需显式关闭
}
