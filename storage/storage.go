// Package storage provides blob storage for finding attachments. Blobs are
// addressed by the relative path recorded on the owning row; delete is
// idempotent so a reference can always be released without checking first.
package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage defines the interface for attachment blob operations
type Storage interface {
	// Save stores a blob at the given path
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Get retrieves a blob from the given path
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the blob at the given path. Deleting a missing blob is
	// not an error.
	Delete(ctx context.Context, path string) error

	// Exists checks if a blob exists at the given path
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a public URL for the blob
	GetURL(ctx context.Context, path string) (string, error)
}

// Config holds storage configuration
type Config struct {
	Type      string // local or s3
	BasePath  string // For local storage
	BaseURL   string // Public URL base
	Bucket    string // For S3
	Region    string // For S3
	AccessKey string // For S3
	SecretKey string // For S3
	Endpoint  string // For S3-compatible stores
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
