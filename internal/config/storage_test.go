package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageConfig(t *testing.T) {
	t.Setenv("STORAGE_BUCKET", "resumes")
	t.Setenv("STORAGE_ACCESS_KEY", "key")
	t.Setenv("STORAGE_SECRET_KEY", "secret")
	t.Setenv("STORAGE_PUBLIC_URL", "https://files.example.com")
	t.Setenv("STORAGE_REGION", "")
	t.Setenv("STORAGE_ENDPOINT", "")

	cfg, err := NewStorageConfig()
	require.NoError(t, err)
	assert.Equal(t, "resumes", cfg.Bucket)
	assert.Equal(t, "auto", cfg.Region) // default when unset
	assert.Empty(t, cfg.Endpoint)
}

func TestNewStorageConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing bucket", "STORAGE_BUCKET"},
		{"missing access key", "STORAGE_ACCESS_KEY"},
		{"missing secret key", "STORAGE_SECRET_KEY"},
		{"missing public url", "STORAGE_PUBLIC_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORAGE_BUCKET", "resumes")
			t.Setenv("STORAGE_ACCESS_KEY", "key")
			t.Setenv("STORAGE_SECRET_KEY", "secret")
			t.Setenv("STORAGE_PUBLIC_URL", "https://files.example.com")
			t.Setenv(tt.unset, "")

			_, err := NewStorageConfig()
			assert.Error(t, err)
		})
	}
}
