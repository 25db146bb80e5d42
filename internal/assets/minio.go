package assets

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio issues presigned PUT URLs for S3-compatible storage. The client
// uploads with a plain PUT and then references the object by its public URL.
type Minio struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

func NewMinio(endpoint, accessKey, secretKey, bucket string, useSSL bool, ttl time.Duration) (*Minio, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Minio{client: client, bucket: bucket, ttl: ttl}, nil
}

func (m *Minio) UploadCredentials(ctx context.Context, filename string) (UploadCredentials, error) {
	object := objectName(filename)
	uploadURL, err := m.client.PresignedPutObject(ctx, m.bucket, object, m.ttl)
	if err != nil {
		return UploadCredentials{}, fmt.Errorf("presign upload: %w", err)
	}
	assetURL := m.client.EndpointURL().JoinPath(m.bucket, object)
	return UploadCredentials{
		Provider:  "s3",
		UploadURL: uploadURL.String(),
		AssetURL:  assetURL.String(),
	}, nil
}

// objectName keeps the original extension but never trusts the rest of the
// client-supplied name.
func objectName(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if len(ext) > 8 {
		ext = ""
	}
	return time.Now().UTC().Format("2006/01") + "/" + uuid.NewString() + ext
}
