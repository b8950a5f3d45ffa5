package infrastructure

import (
	"context"

	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"golang.org/x/sync/errgroup"
)

// GetExtensionFromMIME возвращает расширение файла по MIME-типу изображения.
// Поддерживает jpeg, jpg, png, webp, gif. Возвращает ошибку e.ErrUnsupportedMediaType для неподдерживаемых типов.
func GetExtensionFromMIME(mime string) (string, error) {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpg", nil
	case "image/png":
		return "png", nil
	case "image/webp":
		return "webp", nil
	case "image/gif":
		return "gif", nil
	default:
		return "bin", e.ErrUnsupportedMediaType
	}
}

// UploadAll загружает изображения параллельно, не больше limit одновременно.
// Порядок результата совпадает с порядком images. На первой ошибке остальные загрузки отменяются;
// уже полученные адреса возвращаются вместе с ошибкой, чтобы их можно было удалить.
func UploadAll(ctx context.Context, images []usecase.ProductImage, limit int,
	upload func(ctx context.Context, img usecase.ProductImage) (string, error)) ([]string, error) {
	if limit <= 0 {
		limit = 4
	}

	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			url, err := upload(gctx, img)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uploaded := make([]string, 0, len(urls))
		for _, u := range urls {
			if u != "" {
				uploaded = append(uploaded, u)
			}
		}
		return uploaded, err
	}
	return urls, nil
}
