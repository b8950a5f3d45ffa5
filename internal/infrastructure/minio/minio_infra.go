package minio

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/cfg"
	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/infrastructure"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/jitter"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"

	"github.com/google/uuid"
)

const (
	provider          = "minio"
	uploadImagesLimit = 4
	cleanupAttempts   = 3
)

// MinioInfrastructure управляет загрузкой и очисткой изображений в MinIO.
type MinioInfrastructure struct {
	minioRepo   usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		minioRepo:   minioRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
	}
}

// UploadImages загружает изображения товара в MinIO параллельно и возвращает публичные адреса.
// При ошибке уже загруженные объекты удаляются в фоне.
func (m *MinioInfrastructure) UploadImages(ctx context.Context, images []usecase.ProductImage) ([]string, error) {
	const op = "MinioInfrastructure.UploadImages"

	urls, err := infrastructure.UploadAll(ctx, images, uploadImagesLimit, m.uploadOne)
	if err != nil {
		m.CleanupImages(urls)
		return nil, e.NewUploadError(provider, e.Wrap(op, err))
	}

	return urls, nil
}

func (m *MinioInfrastructure) uploadOne(ctx context.Context, image usecase.ProductImage) (string, error) {
	ext, err := infrastructure.GetExtensionFromMIME(image.MimeType)
	if err != nil {
		return "", fmt.Errorf("invalid mime type %s for %s: %w", image.MimeType, image.Name, err)
	}

	imageID := uuid.NewString()
	objKey := fmt.Sprintf("products/%s.%s", imageID, ext)
	img := domain.NewImage(imageID, m.cfg.BucketName, objKey, image.Data, image.Size, image.MimeType)

	key, err := m.minioRepo.Upload(ctx, img)
	if err != nil {
		return "", fmt.Errorf("upload %s failed: %w", image.Name, err)
	}

	return m.publicURL(key), nil
}

// CleanupImages запускает фоновое удаление объектов по их публичным адресам.
// Адреса чужих хостов пропускаются.
func (m *MinioInfrastructure) CleanupImages(urls []string) {
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		if key, ok := m.keyFromURL(u); ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return
	}

	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет указанные объекты из MinIO с экспоненциальной задержкой и jitter.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d uploaded keys", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, 30*time.Second)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.minioRepo.Delete(ctx, key)
			if err == nil {
				break
			}
			m.logger.Warnf("%s: delete %s failed: %v", op, key, err)

			if attempt == cleanupAttempts-1 {
				break
			}
			if !jitter.Sleep(ctx.Done(), time.Second, 4*time.Second, attempt) {
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения фоновых удалений с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}

func (m *MinioInfrastructure) publicURL(key string) string {
	return m.cfg.PublicBaseURL + "/" + m.cfg.BucketName + "/" + key
}

func (m *MinioInfrastructure) keyFromURL(url string) (string, bool) {
	prefix := m.cfg.PublicBaseURL + "/" + m.cfg.BucketName + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
