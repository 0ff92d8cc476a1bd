// Package storage persists uploaded bootcamp photos on disk or in a MinIO bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"devcamper/internal/config"
)

// Drivers understood by New.
const (
	DriverLocal = "local"
	DriverMinio = "minio"
)

// PhotoStore stores photo files under a flat name such as "photo_12.jpg".
type PhotoStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	// Delete removes name. A missing object is not an error.
	Delete(ctx context.Context, name string) error
	Driver() string
}

// New returns the store selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (PhotoStore, error) {
	switch cfg.StorageDriver {
	case "", DriverLocal:
		return NewLocalStore(cfg.FileUploadPath), nil
	case DriverMinio:
		return NewMinioStore(ctx, MinioOptions{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioAccessKeyID,
			SecretAccessKey: cfg.MinioSecretAccessKey,
			Bucket:          cfg.MinioBucket,
			UseSSL:          cfg.MinioUseSSL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

// ValidName rejects names that could escape the upload directory.
func ValidName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid object name %q", name)
	}
	return nil
}

// LocalStore writes photos into a directory served as static files.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Driver() string { return DriverLocal }

// Dir returns the directory photos are written to.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Put(_ context.Context, name string, data []byte, _ string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	// write then rename so readers never see a partial file
	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := bytes.NewReader(data).WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
