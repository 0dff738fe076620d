package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用程序配置
type Config struct {
	// ATS评分服务配置（远程Provider与降级策略）
	ATS ATSConfig `yaml:"ats"`

	// Redis配置（公司信息缓存）
	Redis RedisConfig `yaml:"redis"`

	// MinIO配置（简历文本对象存储，供MagicalAPI使用公开URL）
	MinIO MinIOConfig `yaml:"minio"`

	// MySQL配置（岗位发布存储）
	MySQL MySQLConfig `yaml:"mysql"`

	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`
}

// ATSConfig ATS评分相关配置
type ATSConfig struct {
	// 是否优先尝试远程评分服务
	UseRemote bool `yaml:"use_remote"`
	// 远程服务全部失败时是否降级到本地引擎
	FallbackToLocal bool `yaml:"fallback_to_local"`
	// 单次HTTP调用超时(秒)
	TimeoutSeconds int `yaml:"timeout_seconds"`

	SharpAPI   SharpAPIConfig   `yaml:"sharpapi"`
	MagicalAPI MagicalAPIConfig `yaml:"magicalapi"`
}

// SharpAPIConfig SharpAPI简历评分服务配置
type SharpAPIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // 例如 "https://sharpapi.com/api/v1"
}

// MagicalAPIConfig MagicalAPI简历评分服务配置
type MagicalAPIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // 例如 "https://gw.magicalapi.com"
}

// RedisConfig Redis配置
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`      // 连接池大小
	MinIdleConns int `yaml:"min_idle_conns"` // 最小空闲连接数
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`  // 连接超时(秒)
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`  // 读取超时(秒)
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"` // 写入超时(秒)
	// 重试设置
	MaxRetries        int `yaml:"max_retries"`          // 最大重试次数
	MinRetryBackoffMS int `yaml:"min_retry_backoff_ms"` // 最小重试间隔(毫秒)
	MaxRetryBackoffMS int `yaml:"max_retry_backoff_ms"` // 最大重试间隔(毫秒)
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UseSSL          bool   `yaml:"useSSL"`
	ResumeBucket    string `yaml:"resumeBucket"` // 解析后简历文本的存储桶
	Location        string `yaml:"location"`     // 可选，存储桶区域
	// 预签名URL有效期(分钟)
	PresignExpiryMinutes int `yaml:"presign_expiry_minutes"`
}

// MySQLConfig MySQL配置
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	// 连接池设置
	MaxIdleConns int `yaml:"max_idle_conns"` // 最大空闲连接数
	MaxOpenConns int `yaml:"max_open_conns"` // 最大打开连接数
	// 连接生命周期
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"`  // 连接最大生命周期(分钟)
	ConnMaxIdleTimeMinutes int `yaml:"conn_max_idle_time_minutes"` // 空闲连接最大生命周期(分钟)
	// 超时设置
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds"` // 连接超时(秒)
	ReadTimeoutSeconds    int `yaml:"read_timeout_seconds"`    // 读取超时(秒)
	WriteTimeoutSeconds   int `yaml:"write_timeout_seconds"`   // 写入超时(秒)
	// 日志级别(1-4)
	LogLevel int `yaml:"log_level"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8080"
	// API Key鉴权，留空则不启用keyauth中间件
	APIKey string `yaml:"api_key"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// LoadConfig 从文件加载配置
// 未指定路径时在常见位置查找；测试环境下找不到文件则返回默认配置
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".genjob", "config.yaml"),
		}

		if execPath, err := os.Executable(); err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths,
				filepath.Join(execDir, "config.yaml"),
				filepath.Join(execDir, "..", "config.yaml"),
			)
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		if configPath == "" {
			if inTestEnv() {
				return createDefaultConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	if _, err := os.Stat(configPath); err != nil {
		if inTestEnv() {
			return createDefaultConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyEnvOverrides(&config)
	applyDefaults(&config)

	return &config, nil
}

// inTestEnv 粗略判断当前是否运行在go test环境中
func inTestEnv() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// applyEnvOverrides 从环境变量覆盖敏感配置（如果存在）
func applyEnvOverrides(config *Config) {
	if envKey := os.Getenv("SHARPAPI_KEY"); envKey != "" {
		config.ATS.SharpAPI.APIKey = envKey
	}
	if envKey := os.Getenv("MAGICALAPI_KEY"); envKey != "" {
		config.ATS.MagicalAPI.APIKey = envKey
	}
	if envVal := os.Getenv("USE_REMOTE_ATS"); envVal != "" {
		if b, err := strconv.ParseBool(envVal); err == nil {
			config.ATS.UseRemote = b
		}
	}
	if envKey := os.Getenv("GENJOB_API_KEY"); envKey != "" {
		config.Server.APIKey = envKey
	}
}

// applyDefaults 填充缺省值
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8080"
	}
	if config.ATS.TimeoutSeconds == 0 {
		config.ATS.TimeoutSeconds = 30
	}
	if config.ATS.SharpAPI.BaseURL == "" {
		config.ATS.SharpAPI.BaseURL = "https://sharpapi.com/api/v1"
	}
	if config.ATS.MagicalAPI.BaseURL == "" {
		config.ATS.MagicalAPI.BaseURL = "https://gw.magicalapi.com"
	}
	if config.MinIO.PresignExpiryMinutes == 0 {
		config.MinIO.PresignExpiryMinutes = 60
	}
	if config.Logger.Level == "" {
		config.Logger.Level = "info"
	}
}

// createDefaultConfig 创建测试环境使用的默认配置
func createDefaultConfig() *Config {
	config := &Config{}

	// ATS默认配置：不访问远程服务，只用本地引擎
	config.ATS.UseRemote = false
	config.ATS.FallbackToLocal = true
	config.ATS.TimeoutSeconds = 30
	config.ATS.SharpAPI.BaseURL = "https://sharpapi.com/api/v1"
	config.ATS.MagicalAPI.BaseURL = "https://gw.magicalapi.com"

	// Redis默认配置
	config.Redis.Address = "localhost:6379"
	config.Redis.Password = ""
	config.Redis.DB = 0
	config.Redis.PoolSize = 10
	config.Redis.MinIdleConns = 2
	config.Redis.DialTimeoutSeconds = 5
	config.Redis.ReadTimeoutSeconds = 3
	config.Redis.WriteTimeoutSeconds = 3
	config.Redis.MaxRetries = 3
	config.Redis.MinRetryBackoffMS = 8
	config.Redis.MaxRetryBackoffMS = 512

	// MinIO默认配置
	config.MinIO.Endpoint = "localhost:9000"
	config.MinIO.AccessKeyID = "minioadmin"
	config.MinIO.SecretAccessKey = "minioadmin123"
	config.MinIO.UseSSL = false
	config.MinIO.ResumeBucket = "resumes"
	config.MinIO.PresignExpiryMinutes = 60

	// MySQL默认配置
	config.MySQL.Host = "localhost"
	config.MySQL.Port = 3306
	config.MySQL.Username = "root"
	config.MySQL.Password = "password"
	config.MySQL.Database = "genjob"
	config.MySQL.MaxIdleConns = 10
	config.MySQL.MaxOpenConns = 100
	config.MySQL.ConnMaxLifetimeMinutes = 60
	config.MySQL.ConnMaxIdleTimeMinutes = 30
	config.MySQL.ConnectTimeoutSeconds = 10
	config.MySQL.ReadTimeoutSeconds = 30
	config.MySQL.WriteTimeoutSeconds = 30
	config.MySQL.LogLevel = 4

	// 服务器默认配置
	config.Server.Address = ":8080"

	// 日志默认配置
	config.Logger.Level = "info"
	config.Logger.Format = "pretty"
	config.Logger.TimeFormat = "2006-01-02 15:04:05"
	config.Logger.ReportCaller = true

	applyEnvOverrides(config)

	return config
}

// GetDuration 解析配置中的时间字符串，解析失败时返回默认值
func GetDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return d
}
