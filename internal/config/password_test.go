package config

import (
	"strings"
	"testing"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name       string
		bcryptCost string
		wantCost   int
		wantErr    bool
	}{
		{name: "default cost", bcryptCost: "", wantCost: 12},
		{name: "minimum cost", bcryptCost: "10", wantCost: 10},
		{name: "maximum cost", bcryptCost: "14", wantCost: 14},
		{name: "cost below minimum", bcryptCost: "9", wantErr: true},
		{name: "cost above maximum", bcryptCost: "15", wantErr: true},
		{name: "non-numeric cost", bcryptCost: "invalid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.bcryptCost)
			t.Setenv("PASSWORD_PEPPER", "")

			config, err := NewPasswordConfig()
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPasswordConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && config.BcryptCost != tt.wantCost {
				t.Errorf("NewPasswordConfig() BcryptCost = %v, want %v", config.BcryptCost, tt.wantCost)
			}
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "")

	config, err := NewPasswordConfig()
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	password := "test-password-123"
	hash, err := config.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !config.VerifyPassword(password, hash) {
		t.Error("VerifyPassword() should return true for correct password")
	}
	if config.VerifyPassword("wrong-password", hash) {
		t.Error("VerifyPassword() should return false for incorrect password")
	}

	// bcrypt salts, so the same password hashes differently each time
	hash2, err := config.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == hash2 {
		t.Error("HashPassword() should produce different hashes for same password (salt)")
	}
}

func TestPasswordConfig_Pepper(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "test-pepper-123")

	config, err := NewPasswordConfig()
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	password := "test-password-123"
	hash, err := config.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !config.VerifyPassword(password, hash) {
		t.Error("VerifyPassword() should return true for correct password with pepper")
	}

	// A hash made with a pepper must not verify once the pepper is gone
	t.Setenv("PASSWORD_PEPPER", "")
	configNoPepper, err := NewPasswordConfig()
	if err != nil {
		t.Fatalf("Failed to create config without pepper: %v", err)
	}
	if configNoPepper.VerifyPassword(password, hash) {
		t.Error("VerifyPassword() should return false when pepper is removed")
	}
}

func TestPasswordConfig_PasswordExceeding72Bytes(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "")

	config, err := NewPasswordConfig()
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	// Bcrypt errors when the input exceeds 72 bytes (does not truncate)
	hash, err := config.HashPassword(strings.Repeat("a", 100))
	if err == nil {
		t.Error("HashPassword() should error when password exceeds 72 bytes")
	}
	if hash != "" {
		t.Error("HashPassword() should return empty hash when password exceeds 72 bytes")
	}
}

func TestPasswordConfig_MalformedHash(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "")

	config, err := NewPasswordConfig()
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	for _, malformed := range []string{"", "not-a-hash", "$2a$12$invalid"} {
		if config.VerifyPassword("test", malformed) {
			t.Errorf("VerifyPassword() should return false for malformed hash: %q", malformed)
		}
	}
}
