package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// S3Storage implements Storage using Amazon S3 or S3-compatible services
// TODO: Implement using aws-sdk-go-v2
type S3Storage struct {
	bucket   string
	region   string
	endpoint string
	// client *s3.Client // Uncomment when implementing
}

// NewS3Storage creates a new S3 storage instance
// TODO: Initialize S3 client using aws-sdk-go-v2
func NewS3Storage(cfg *Config) (*S3Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.S3Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	return &S3Storage{
		bucket:   cfg.S3Bucket,
		region:   cfg.S3Region,
		endpoint: cfg.S3Endpoint,
	}, nil
}

// Save stores an artifact in S3 and returns its metadata
func (s *S3Storage) Save(ctx context.Context, profileID uuid.UUID, filename string, contentType string, r io.Reader) (*ArtifactInfo, error) {
	// TODO: Implement S3 upload with key {profileID}/{artifactID}/{filename}
	return nil, fmt.Errorf("S3 storage not implemented - please set STORAGE_TYPE=local or implement S3Storage")
}

// Open retrieves an artifact from S3 by its ID
func (s *S3Storage) Open(ctx context.Context, profileID uuid.UUID, artifactID uuid.UUID) (io.ReadCloser, *ArtifactInfo, error) {
	// TODO: Implement S3 download
	return nil, nil, fmt.Errorf("S3 storage not implemented")
}

// Delete removes an artifact from S3 by its ID
func (s *S3Storage) Delete(ctx context.Context, profileID uuid.UUID, artifactID uuid.UUID) error {
	// TODO: Implement S3 delete
	return fmt.Errorf("S3 storage not implemented")
}

// List returns all artifacts for a profile from S3
func (s *S3Storage) List(ctx context.Context, profileID uuid.UUID) ([]*ArtifactInfo, error) {
	// TODO: Implement S3 list with prefix profileID/
	return nil, fmt.Errorf("S3 storage not implemented")
}

// GetInfo returns metadata for an artifact without downloading
func (s *S3Storage) GetInfo(ctx context.Context, profileID uuid.UUID, artifactID uuid.UUID) (*ArtifactInfo, error) {
	// TODO: Implement S3 head object
	return nil, fmt.Errorf("S3 storage not implemented")
}
