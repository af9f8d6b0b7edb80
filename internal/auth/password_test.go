package auth

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		cost     int
		wantErr  error
	}{
		{
			name:     "valid password",
			password: "validpassword123",
			cost:     4,
		},
		{
			name:     "password too short",
			password: "short",
			cost:     4,
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "password at minimum length",
			password: "123456789012",
			cost:     4,
		},
		{
			name:     "password too long",
			password: strings.Repeat("a", 73),
			cost:     4,
			wantErr:  ErrPasswordTooLong,
		},
		{
			name:     "password at maximum length",
			password: strings.Repeat("a", 72),
			cost:     4,
		},
		{
			name:     "cost below minimum falls back to default",
			password: "validpassword123",
			cost:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, tt.cost)
			if err != tt.wantErr {
				t.Errorf("HashPassword() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr == nil && hash == "" {
				t.Error("HashPassword() returned empty hash for valid password")
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	password := "testpassword123"
	hash, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"correct password", password, nil},
		{"incorrect password", "wrongpassword", ErrInvalidPassword},
		{"empty password", "", ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckPassword(tt.password, hash); err != tt.wantErr {
				t.Errorf("CheckPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateSessionSecret(t *testing.T) {
	secret1, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("GenerateSessionSecret() error = %v", err)
	}
	secret2, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("GenerateSessionSecret() error = %v", err)
	}

	if secret1 == secret2 {
		t.Error("GenerateSessionSecret() returned identical secrets")
	}

	raw, err := hex.DecodeString(secret1)
	if err != nil {
		t.Fatalf("secret is not hex: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("expected 32 bytes, got %d", len(raw))
	}
}
