package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"mediablog/internal/config"
	"mediablog/internal/models"

	"github.com/google/uuid"
)

// ResourceTypeImage/ResourceTypeVideo выбирают бакет при загрузке и удалении
const (
	ResourceTypeImage = "image"
	ResourceTypeVideo = "video"
)

type Storage interface {
	Upload(ctx context.Context, fileName string, file io.Reader, size int64, resourceType string) (models.MediaFile, error)
	Destroy(ctx context.Context, publicID string, resourceType string) error
}

type MinIOClient struct {
	client *minio.Client
	config *config.Config
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MinIO: %w", err)
	}

	m := &MinIOClient{client: client, config: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, bucket := range []string{cfg.MinIO.ImageBucket, cfg.MinIO.VideoBucket} {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("ошибка проверки бакета %s: %w", bucket, err)
		}
		if !exists {
			err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
			if err != nil {
				return nil, fmt.Errorf("ошибка создания бакета %s: %w", bucket, err)
			}
		}
	}

	return m, nil
}

func (m *MinIOClient) bucketFor(resourceType string) string {
	if resourceType == ResourceTypeVideo {
		return m.config.MinIO.VideoBucket
	}
	return m.config.MinIO.ImageBucket
}

// Upload отправляет файл в хранилище и возвращает {public_id, url}.
// public_id - имя объекта в бакете, по нему же выполняется Destroy.
func (m *MinIOClient) Upload(ctx context.Context, fileName string, file io.Reader, size int64, resourceType string) (models.MediaFile, error) {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		if resourceType == ResourceTypeVideo {
			fileExt = ".mp4"
		} else {
			fileExt = ".jpg"
		}
	}

	contentType := mime.TypeByExtension(fileExt)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now()
	bucket := m.bucketFor(resourceType)
	objectName := fmt.Sprintf("%d/%02d/%s%s",
		now.Year(),
		now.Month(),
		uuid.New().String(),
		fileExt)

	_, err := m.client.PutObject(ctx, bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return models.MediaFile{}, fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	return models.MediaFile{
		PublicID: objectName,
		URL:      fmt.Sprintf("%s/%s/%s", m.config.MinIO.PublicURL, bucket, objectName),
	}, nil
}

func (m *MinIOClient) Destroy(ctx context.Context, publicID string, resourceType string) error {
	err := m.client.RemoveObject(ctx, m.bucketFor(resourceType), publicID,
		minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}
