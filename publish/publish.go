package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/minio/minio-go/v7"
	miniocredentials "github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeXML  = "application/xml; charset=utf-8"
)

type MinIO interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (info minio.UploadInfo, err error)
}

// Publisher uploads rendered fragments to a bucket.
type Publisher struct {
	mc     MinIO
	bucket string
	prefix string
}

func New(mc MinIO, bucket, prefix string) *Publisher {
	return &Publisher{mc: mc, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func Connect(endpoint, accessKey, secretKey string) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  miniocredentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: true,
	})
}

// Put uploads data under name, or under a random name with ext when name is empty, and
// returns the object key.
func (p *Publisher) Put(ctx context.Context, name, ext, contentType string, data []byte) (string, error) {
	if name == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return "", fmt.Errorf("generate object name: %w", err)
		}
		name = id.String() + ext
	}
	key := path.Join(p.prefix, name)

	_, err := p.mc.PutObject(ctx, p.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	slog.InfoContext(ctx, "published", "bucket", p.bucket, "key", key, "bytes", len(data))
	return key, nil
}
