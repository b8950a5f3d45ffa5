package domain

// Image описывает объект изображения в S3-совместимом хранилище
type Image struct {
	ID          string // uuid
	Bucket      string
	ObjectKey   string
	Bytes       []byte
	Size        int64
	ContentType string // Example: "image/png"
}

func NewImage(id string, bucket string, objectKey string, data []byte, size int64, contentType string) *Image {
	return &Image{
		ID:          id,
		Bucket:      bucket,
		ObjectKey:   objectKey,
		Bytes:       data,
		Size:        size,
		ContentType: contentType,
	}
}
