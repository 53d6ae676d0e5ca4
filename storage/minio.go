package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"AlbumGap/config"
	"AlbumGap/logger"
)

var minioClient *minio.Client
var minioBucket string

// InitMinio initializes the MinIO client and makes sure the report bucket
// exists. Only called when archival is enabled in config.
func InitMinio(cfg *config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return fmt.Errorf("create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("created report bucket", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	minioBucket = cfg.MinioBucket
	return nil
}

// Enabled reports whether report archival is available.
func Enabled() bool {
	return minioClient != nil
}

// ArchiveReport uploads one comparison report as JSON under reports/<runID>.json.
func ArchiveReport(ctx context.Context, runID string, data []byte) error {
	if minioClient == nil {
		return nil
	}

	objectName := fmt.Sprintf("reports/%s.json", runID)
	_, err := minioClient.PutObject(ctx, minioBucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("upload report %s: %w", objectName, err)
	}

	logger.Info("report archived",
		logger.String("bucket", minioBucket), logger.String("object", objectName))
	return nil
}
