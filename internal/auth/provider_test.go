package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/entities"
)

const (
	testProviderURL    = "https://auth.example.org"
	testProviderSecret = "provider-secret-for-tests"
)

func testVerifier() *ProviderVerifier {
	return NewProviderVerifier(config.Provider{
		URL:       testProviderURL,
		JWTSecret: testProviderSecret,
	})
}

func signProviderToken(t *testing.T, secret string, mutate func(*ProviderClaims)) string {
	t.Helper()
	claims := ProviderClaims{
		Email: "staff@example.org",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "b6f7c1de-0000-4000-8000-000000000001",
			Issuer:    testProviderURL + "/auth/v1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if mutate != nil {
		mutate(&claims)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestNewProviderVerifier_DisabledWithoutSecret(t *testing.T) {
	v := NewProviderVerifier(config.Provider{URL: testProviderURL})
	if v != nil {
		t.Fatal("expected nil verifier without a secret")
	}
	if _, err := v.Verify("anything"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken from nil verifier, got %v", err)
	}
}

func TestProviderVerifier_Verify(t *testing.T) {
	v := testVerifier()

	tests := []struct {
		name     string
		token    func(t *testing.T) string
		wantRole entities.UserRole
		wantErr  bool
	}{
		{
			name:     "authenticated user maps to editor",
			token:    func(t *testing.T) string { return signProviderToken(t, testProviderSecret, nil) },
			wantRole: entities.UserRoleEditor,
		},
		{
			name: "app metadata admin maps to admin",
			token: func(t *testing.T) string {
				return signProviderToken(t, testProviderSecret, func(c *ProviderClaims) {
					c.AppMetadata.Role = "admin"
				})
			},
			wantRole: entities.UserRoleAdmin,
		},
		{
			name: "anon key is rejected",
			token: func(t *testing.T) string {
				return signProviderToken(t, testProviderSecret, func(c *ProviderClaims) {
					c.Role = "anon"
				})
			},
			wantErr: true,
		},
		{
			name:    "wrong secret",
			token:   func(t *testing.T) string { return signProviderToken(t, "some-other-secret", nil) },
			wantErr: true,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				return signProviderToken(t, testProviderSecret, func(c *ProviderClaims) {
					c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				})
			},
			wantErr: true,
		},
		{
			name: "foreign issuer",
			token: func(t *testing.T) string {
				return signProviderToken(t, testProviderSecret, func(c *ProviderClaims) {
					c.Issuer = "https://evil.example.com/auth/v1"
				})
			},
			wantErr: true,
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				return signProviderToken(t, testProviderSecret, func(c *ProviderClaims) {
					c.Subject = ""
				})
			},
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   func(t *testing.T) string { return "not.a.jwt" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := v.Verify(tt.token(t))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidToken) {
					t.Fatalf("expected ErrInvalidToken, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if p.Role != tt.wantRole {
				t.Errorf("expected role %q, got %q", tt.wantRole, p.Role)
			}
			if p.Source != SourceProvider {
				t.Errorf("expected provider source, got %q", p.Source)
			}
			if p.Name() != "staff@example.org" {
				t.Errorf("expected name to be the email, got %q", p.Name())
			}
		})
	}
}

func TestProviderVerifier_RejectsNoneAlgorithm(t *testing.T) {
	claims := ProviderClaims{
		Role: "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user-1",
			Issuer:  testProviderURL + "/auth/v1",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := testVerifier().Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg none, got %v", err)
	}
}
