// Package storage holds the object store drivers behind gateway.Objects.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/dakka24/dakka/internal/config"
	"github.com/dakka24/dakka/internal/gateway"
)

var (
	// ErrObjectExists is returned by Put when overwrite is off and the path is taken.
	ErrObjectExists = errors.New("object already exists")
	// ErrEmptyKey is returned for blank object paths.
	ErrEmptyKey = errors.New("empty object key")
)

// New builds the object store selected by cfg.Driver ("s3" or "minio").
func New(ctx context.Context, cfg config.ObjectStoreConfig) (gateway.Objects, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "s3":
		return NewS3Storage(ctx, cfg)
	case "minio":
		return NewMinioStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown object store driver %q", cfg.Driver)
	}
}

func cleanKey(p string) (string, error) {
	key := strings.TrimLeft(path.Clean("/"+strings.TrimSpace(p)), "/")
	if key == "" || key == "." {
		return "", ErrEmptyKey
	}
	return key, nil
}

// defaultRegion is assumed when no region is configured.
const defaultRegion = "us-east-1"

// publicBase picks the configured CDN base, then the path-style bucket
// address on a custom endpoint, then the AWS virtual-hosted bucket address.
func publicBase(cfg config.ObjectStoreConfig, endpoint string) string {
	if base := strings.TrimSuffix(strings.TrimSpace(cfg.PublicBaseURL), "/"); base != "" {
		return base
	}
	if endpoint != "" {
		return endpoint + "/" + cfg.Bucket
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}

func joinURL(base, p string) string {
	key, err := cleanKey(p)
	if err != nil {
		return base
	}
	if base == "" {
		return key
	}
	return base + "/" + key
}
