// Package cloudinary загружает изображения в Cloudinary без подписи (upload preset).
package cloudinary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/cfg"
	"github.com/DRSN-tech/product-dashboard/internal/infrastructure"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/guonaihong/gout"
)

const (
	provider          = "cloudinary"
	uploadImagesLimit = 4
)

var errMissingCredentials = fmt.Errorf("missing cloudinary cloud name or upload preset")

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// CloudinaryInfrastructure реализует usecase.ImagesInfra поверх Cloudinary.
type CloudinaryInfrastructure struct {
	cfg    *cfg.CloudinaryCfg
	client *http.Client
	logger logger.Logger
}

func NewCloudinaryInfrastructure(cfg *cfg.CloudinaryCfg, timeout time.Duration, logger logger.Logger) *CloudinaryInfrastructure {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CloudinaryInfrastructure{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// UploadImages загружает изображения и возвращает их secure_url в исходном порядке.
func (c *CloudinaryInfrastructure) UploadImages(ctx context.Context, images []usecase.ProductImage) ([]string, error) {
	const op = "CloudinaryInfrastructure.UploadImages"

	if c.cfg.CloudName == "" || c.cfg.UploadPreset == "" {
		return nil, e.NewUploadError(provider, errMissingCredentials)
	}

	urls, err := infrastructure.UploadAll(ctx, images, uploadImagesLimit, c.uploadOne)
	if err != nil {
		if len(urls) > 0 {
			c.logger.Warnf("%s: %d images left on cloudinary after failure", op, len(urls))
		}
		return nil, e.NewUploadError(provider, e.Wrap(op, err))
	}
	return urls, nil
}

func (c *CloudinaryInfrastructure) uploadOne(ctx context.Context, image usecase.ProductImage) (string, error) {
	if _, err := infrastructure.GetExtensionFromMIME(image.MimeType); err != nil {
		return "", fmt.Errorf("invalid mime type %s for %s: %w", image.MimeType, image.Name, err)
	}

	var (
		code int
		body []byte
	)
	err := gout.New(c.client).
		POST(c.uploadURL()).
		WithContext(ctx).
		SetForm(gout.H{
			"file": gout.FormType{
				FileName:    image.Name,
				ContentType: image.MimeType,
				File:        gout.FormMem(image.Data),
			},
			"upload_preset": c.cfg.UploadPreset,
		}).
		Code(&code).
		BindBody(&body).
		Do()
	if err != nil {
		return "", e.NewNetworkError("cloudinary upload", err)
	}
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		return "", e.NewHTTPError("cloudinary upload", code, string(body))
	}

	var res uploadResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", err
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary response without secure_url")
	}
	return res.SecureURL, nil
}

// CleanupImages ничего не делает: unsigned-загрузку нельзя удалить без API-секрета.
func (c *CloudinaryInfrastructure) CleanupImages(urls []string) {
	if len(urls) > 0 {
		c.logger.Debugf("skipping cleanup of %d cloudinary images", len(urls))
	}
}

func (c *CloudinaryInfrastructure) uploadURL() string {
	return fmt.Sprintf("%s/%s/image/upload", c.cfg.Endpoint, c.cfg.CloudName)
}
