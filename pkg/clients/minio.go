package clients

import (
	"context"

	config "github.com/DRSN-tech/product-dashboard/internal/cfg"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewMinIOClient(cfg *config.MinIOCfg) (*minio.Client, error) {
	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioRootUser, cfg.MinioRootPassword, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return minioClient, nil
}

// EnsureBucket создаёт бакет, если его нет, и открывает объекты на чтение по prefix products/.
func EnsureBucket(ctx context.Context, client *minio.Client, bucketName string) error {
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if !exists {
		err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		// бакет мог создать параллельно стартующий экземпляр
		if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	policy := `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},` +
		`"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::` + bucketName + `/products/*"]}]}`
	if err := client.SetBucketPolicy(ctx, bucketName, policy); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
