package persist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rogersnm/frontdesk/internal/config"
)

// ObjectStore keeps each snapshot as one JSON object in an S3-compatible
// bucket.
type ObjectStore struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ Backend = (*ObjectStore)(nil)

// NewObjectStore connects to the bucket, creating it when missing.
func NewObjectStore(ctx context.Context, cfg config.MinIOConfig) (*ObjectStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &ObjectStore{client: cli, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// ObjectKey maps a snapshot key to its object name.
func (o *ObjectStore) ObjectKey(key string) string {
	return objectKey(o.prefix, key)
}

func objectKey(prefix, key string) string {
	return path.Join(prefix, key+".json")
}

func (o *ObjectStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	obj, err := o.client.GetObject(ctx, o.bucket, o.ObjectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

func (o *ObjectStore) Save(ctx context.Context, key string, snapshot []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := o.client.PutObject(ctx, o.bucket, o.ObjectKey(key),
		bytes.NewReader(snapshot), int64(len(snapshot)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (o *ObjectStore) Close() error { return nil }
