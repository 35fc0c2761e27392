package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dakka24/dakka/internal/config"
	"github.com/dakka24/dakka/internal/gateway"
)

// MinioStorage implements gateway.Objects on a MinIO server.
type MinioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStorage connects to the MinIO endpoint in cfg. The endpoint may be
// given with or without a scheme; the scheme decides TLS when present.
func NewMinioStorage(_ context.Context, cfg config.ObjectStoreConfig) (*MinioStorage, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("minio storage: bucket is required")
	}

	host, secure, err := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to minio: %w", err)
	}

	scheme := "http"
	if secure {
		scheme = "https"
	}

	return &MinioStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBase(cfg, scheme+"://"+host),
	}, nil
}

// Put uploads the body under path, refusing to replace existing objects
// unless opts.Overwrite is set.
func (s *MinioStorage) Put(ctx context.Context, path string, body io.Reader, opts gateway.PutOptions) error {
	key, err := cleanKey(path)
	if err != nil {
		return err
	}

	if !opts.Overwrite {
		_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
		if err == nil {
			return fmt.Errorf("minio storage %s: %w", key, ErrObjectExists)
		}
		if minio.ToErrorResponse(err).Code != "NoSuchKey" {
			return fmt.Errorf("minio storage stat %s: %w", key, err)
		}
	}

	size := opts.Size
	if size == 0 {
		size = -1
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: opts.ContentType,
	})
	if err != nil {
		return fmt.Errorf("minio storage upload %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the address an object is served from.
func (s *MinioStorage) PublicURL(path string) string {
	return joinURL(s.baseURL, path)
}

func splitEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", false, fmt.Errorf("minio storage: endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimSuffix(endpoint, "/"), useSSL, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("minio storage: parse endpoint: %w", err)
	}
	return u.Host, u.Scheme == "https", nil
}

var _ gateway.Objects = (*MinioStorage)(nil)
