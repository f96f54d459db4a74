package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/feichai0017/pbit-mentor/pkg/logger"
	"github.com/feichai0017/pbit-mentor/pkg/storage/minio"
)

// StorageType 定义存储类型
type StorageType string

const (
	StorageTypeMinio StorageType = "minio"
)

// Storage holds submission archives between upload and grading.
type Storage interface {
	// Store 存储文件
	Store(ctx context.Context, reader io.Reader, filename string) (string, error)
	// Get 获取文件
	Get(ctx context.Context, fileID string) (io.ReadCloser, error)
	// Delete 删除文件
	Delete(ctx context.Context, id string) error
	// CleanupBefore 清理过期文件
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// NewStorage 创建存储实例的工厂方法
func NewStorage(storageType StorageType, logger logger.Logger) (Storage, error) {
	switch storageType {
	case StorageTypeMinio:
		return minio.GetClient(logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
