package minio

import (
	"bytes"
	"context"

	"github.com/DRSN-tech/product-dashboard/internal/cfg"
	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ключи объектов уникальны (uuid), поэтому содержимое по ключу не меняется
const immutableCacheControl = "public, max-age=31536000, immutable"

// ImageRepo хранит изображения товаров в бакете MinIO.
type ImageRepo struct {
	mc     *minio.Client
	bucket string
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{mc: mc, bucket: cfg.BucketName}
}

// Upload кладёт изображение в бакет и возвращает ключ объекта.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	bucket := image.Bucket
	if bucket == "" {
		bucket = i.bucket
	}

	info, err := i.mc.PutObject(ctx, bucket, image.ObjectKey, bytes.NewReader(image.Bytes), image.Size, minio.PutObjectOptions{
		ContentType:  image.ContentType,
		CacheControl: immutableCacheControl,
		UserMetadata: map[string]string{"image-id": image.ID},
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект. Отсутствующий объект не считается ошибкой: очистка может повторяться.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	err := i.mc.RemoveObject(ctx, i.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
