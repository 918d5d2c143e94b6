// Package config provides environment-based configuration for the service.
package config

import (
	"fmt"
	"os"
)

// StorageConfig holds configuration for the S3-compatible object store that
// keeps the original uploaded files.
type StorageConfig struct {
	Endpoint  string // empty for AWS S3; set for R2/MinIO
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string // base URL served back to clients
}

// NewStorageConfig creates storage configuration from environment variables.
// It reads STORAGE_BUCKET, STORAGE_ACCESS_KEY, STORAGE_SECRET_KEY (required),
// STORAGE_PUBLIC_URL (required), STORAGE_ENDPOINT and STORAGE_REGION
// (default: auto).
func NewStorageConfig() (*StorageConfig, error) {
	config := &StorageConfig{
		Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
		Region:    os.Getenv("STORAGE_REGION"),
		Bucket:    os.Getenv("STORAGE_BUCKET"),
		AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		PublicURL: os.Getenv("STORAGE_PUBLIC_URL"),
	}
	if config.Region == "" {
		config.Region = "auto"
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *StorageConfig) normalize() error {
	if c.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required but not set")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required but not set")
	}
	if c.PublicURL == "" {
		return fmt.Errorf("STORAGE_PUBLIC_URL is required but not set")
	}
	return nil
}
