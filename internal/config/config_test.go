package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigDefaultInTestEnv 测试环境下找不到配置文件时返回默认配置
func TestLoadConfigDefaultInTestEnv(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// 测试环境默认不访问远程评分服务
	assert.False(t, cfg.ATS.UseRemote)
	assert.True(t, cfg.ATS.FallbackToLocal)
	assert.Equal(t, 30, cfg.ATS.TimeoutSeconds)
	assert.Equal(t, "https://sharpapi.com/api/v1", cfg.ATS.SharpAPI.BaseURL)
	assert.Equal(t, "https://gw.magicalapi.com", cfg.ATS.MagicalAPI.BaseURL)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

// TestLoadConfigFromFile 从YAML文件加载并填充缺省值
func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
ats:
  use_remote: true
  fallback_to_local: true
  sharpapi:
    api_key: "file-key"
server:
  address: ":9090"
logger:
  level: "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.ATS.UseRemote)
	assert.Equal(t, "file-key", cfg.ATS.SharpAPI.APIKey)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logger.Level)

	// 文件未指定的字段由缺省值填充
	assert.Equal(t, 30, cfg.ATS.TimeoutSeconds)
	assert.Equal(t, "https://sharpapi.com/api/v1", cfg.ATS.SharpAPI.BaseURL)
	assert.Equal(t, 60, cfg.MinIO.PresignExpiryMinutes)
}

// TestEnvOverrides 环境变量覆盖敏感配置
func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHARPAPI_KEY", "env-sharp-key")
	t.Setenv("MAGICALAPI_KEY", "env-magic-key")
	t.Setenv("USE_REMOTE_ATS", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "env-sharp-key", cfg.ATS.SharpAPI.APIKey)
	assert.Equal(t, "env-magic-key", cfg.ATS.MagicalAPI.APIKey)
	assert.True(t, cfg.ATS.UseRemote)
}

// TestGetDuration 时间字符串解析失败时回退默认值
func TestGetDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, GetDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("not-a-duration", time.Minute))
}
