package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/Devan019/GenJob/internal/config"
	"github.com/Devan019/GenJob/internal/logger"
)

// MinIO 简历文本对象存储
//
// 解析后的简历文本上传到这里并签发预签名URL，供只接受URL输入的远程
// 评分服务读取。
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
	bucket string
	log    zerolog.Logger
}

// NewMinIO 创建MinIO客户端并确保存储桶存在
func NewMinIO(cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	bucket := cfg.ResumeBucket
	if bucket == "" {
		bucket = "resumes"
	}

	m := &MinIO{
		client: client,
		cfg:    cfg,
		bucket: bucket,
		log:    logger.Logger.With().Str("component", "minio").Logger(),
	}

	if err := m.ensureBucketExists(context.Background(), bucket, cfg.Location); err != nil {
		return nil, fmt.Errorf("确保存储桶 %s 存在失败: %w", bucket, err)
	}

	m.log.Info().Str("endpoint", cfg.Endpoint).Str("bucket", bucket).Msg("MinIO客户端初始化成功")
	return m, nil
}

// ensureBucketExists 确保存储桶存在
func (m *MinIO) ensureBucketExists(ctx context.Context, bucketName, location string) error {
	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", bucketName, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
			return fmt.Errorf("创建存储桶 %s 失败: %w", bucketName, err)
		}
		m.log.Info().Str("bucket", bucketName).Msg("存储桶已创建")
	}
	return nil
}

// UploadResumeText 上传简历文本，返回对象名
// 对象名用UUIDv7生成，按时间有序便于排查
func (m *MinIO) UploadResumeText(ctx context.Context, text string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("生成对象名失败: %w", err)
	}
	objectName := fmt.Sprintf("parsed/%s.txt", id.String())

	data := []byte(text)
	_, err = m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return "", fmt.Errorf("上传简历文本失败: %w", err)
	}

	m.log.Debug().Str("object", objectName).Int("size", len(data)).Msg("简历文本已上传")
	return objectName, nil
}

// GetPresignedURL 签发对象的预签名下载URL
func (m *MinIO) GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("生成预签名URL失败: %w", err)
	}
	return u.String(), nil
}

// ShareResumeText 上传简历文本并返回可公开访问的预签名URL
// 实现provider.ResumeSharer
func (m *MinIO) ShareResumeText(ctx context.Context, text string) (string, error) {
	objectName, err := m.UploadResumeText(ctx, text)
	if err != nil {
		return "", err
	}

	expiry := time.Duration(m.cfg.PresignExpiryMinutes) * time.Minute
	if expiry <= 0 {
		expiry = time.Hour
	}
	return m.GetPresignedURL(ctx, objectName, expiry)
}

// GetResumeText 下载简历文本
func (m *MinIO) GetResumeText(ctx context.Context, objectName string) (string, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("获取对象失败: %w", err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return "", fmt.Errorf("读取对象内容失败: %w", err)
	}
	return buf.String(), nil
}

// DeleteResumeText 删除简历文本对象
func (m *MinIO) DeleteResumeText(ctx context.Context, objectName string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除对象失败: %w", err)
	}
	return nil
}
