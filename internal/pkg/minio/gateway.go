package minio

import (
	"Gazette/internal/api/config"
	"Gazette/internal/pkg/media"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// Gateway 基于 MinIO 的媒体网关，引用即对象名
type Gateway struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewGateway 使用 Init 初始化后的全局客户端
func NewGateway() *Gateway {
	cfg := config.Cfg.MinIO
	return newGateway(Client, MainBucket, cfg.ExternalEndpoint, cfg.ExternalUseSSL)
}

func newGateway(client *minio.Client, bucket, endpoint string, useSSL bool) *Gateway {
	protocol := "http"
	if useSSL {
		protocol = "https"
	}
	return &Gateway{
		client:     client,
		bucket:     bucket,
		publicBase: fmt.Sprintf("%s://%s/%s/", protocol, endpoint, bucket),
	}
}

// Upload 上传文件到MinIO
func (s *Gateway) Upload(ctx context.Context, file *media.File, kind media.Kind) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}
	objectName := media.ObjectName(kind, file.Name)

	uploadInfo, err := s.client.PutObject(ctx, s.bucket, objectName, file.Reader, file.Size, minio.PutObjectOptions{
		ContentType: file.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// Delete 删除MinIO中的文件，对象不存在视为成功
func (s *Gateway) Delete(ctx context.Context, ref string, _ media.Kind) error {
	if s.client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// PublicURL 获取文件的公共访问URL
func (s *Gateway) PublicURL(ref string, _ media.Kind) string {
	if ref == "" {
		return ""
	}
	return s.publicBase + ref
}
