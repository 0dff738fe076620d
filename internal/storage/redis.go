package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Devan019/GenJob/internal/config"
	"github.com/Devan019/GenJob/internal/constants"
	"github.com/Devan019/GenJob/internal/types"
)

// ErrNotFound 键不存在时返回，包装底层的redis.Nil
var ErrNotFound = redis.Nil

// Redis 键值存储，目前只承载公司信息缓存
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter 创建Redis客户端连接
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		// 重试设置
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// companyKey 公司缓存键，公司名统一小写避免大小写产生重复条目
func companyKey(name string) string {
	return fmt.Sprintf(constants.KeyCompany, strings.ToLower(strings.TrimSpace(name)))
}

// SaveCompany 缓存公司信息，带24小时过期
func (r *Redis) SaveCompany(ctx context.Context, company *types.CompanyInfo) error {
	if company == nil || company.Name == "" {
		return fmt.Errorf("company name is required")
	}

	data, err := json.Marshal(company)
	if err != nil {
		return fmt.Errorf("序列化公司信息失败: %w", err)
	}

	key := companyKey(company.Name)
	if err := r.Client.Set(ctx, key, data, constants.CompanyCacheDuration).Err(); err != nil {
		return fmt.Errorf("写入公司缓存失败: %w", err)
	}
	return nil
}

// GetCompany 读取公司缓存，未命中时返回ErrNotFound
func (r *Redis) GetCompany(ctx context.Context, name string) (*types.CompanyInfo, error) {
	data, err := r.Client.Get(ctx, companyKey(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("读取公司缓存失败: %w", err)
	}

	var company types.CompanyInfo
	if err := json.Unmarshal(data, &company); err != nil {
		return nil, fmt.Errorf("反序列化公司信息失败: %w", err)
	}
	return &company, nil
}

// Ping 检查连接
func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// Close 关闭连接
func (r *Redis) Close() error {
	return r.Client.Close()
}
