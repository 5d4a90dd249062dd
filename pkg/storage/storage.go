// Package storage provides artifact storage abstraction with local and S3 implementations.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// ArtifactInfo contains metadata about a stored filing artifact
type ArtifactInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // Internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Storage defines the interface for artifact storage operations. Artifacts
// are grouped per seller profile.
type Storage interface {
	// Save stores an artifact and returns its metadata
	Save(ctx context.Context, profileID uuid.UUID, filename string, contentType string, r io.Reader) (*ArtifactInfo, error)

	// Open retrieves an artifact by its ID
	Open(ctx context.Context, profileID uuid.UUID, artifactID uuid.UUID) (io.ReadCloser, *ArtifactInfo, error)

	// Delete removes an artifact by its ID
	Delete(ctx context.Context, profileID uuid.UUID, artifactID uuid.UUID) error

	// List returns all artifacts for a profile
	List(ctx context.Context, profileID uuid.UUID) ([]*ArtifactInfo, error)

	// GetInfo returns metadata for an artifact without opening it
	GetInfo(ctx context.Context, profileID uuid.UUID, artifactID uuid.UUID) (*ArtifactInfo, error)
}

// StorageType identifies the storage backend
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// Config holds storage configuration
type Config struct {
	Type StorageType `yaml:"type" env:"STORAGE_TYPE" envDefault:"local"`

	// Local storage config
	LocalPath string `yaml:"local_path" env:"STORAGE_LOCAL_PATH" envDefault:"./artifacts"`

	// S3 storage config (prepared for future use)
	S3Bucket          string `yaml:"s3_bucket" env:"STORAGE_S3_BUCKET"`
	S3Region          string `yaml:"s3_region" env:"STORAGE_S3_REGION"`
	S3AccessKeyID     string `yaml:"s3_access_key_id" env:"STORAGE_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key" env:"STORAGE_S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `yaml:"s3_endpoint" env:"STORAGE_S3_ENDPOINT"` // For S3-compatible services (MinIO, etc.)
}

// New creates a new Storage implementation based on configuration
func New(cfg *Config) (Storage, error) {
	switch cfg.Type {
	case StorageTypeS3:
		return NewS3Storage(cfg)
	case StorageTypeLocal:
		fallthrough
	default:
		return NewLocalStorage(cfg.LocalPath)
	}
}
