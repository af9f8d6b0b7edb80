package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/entities"
)

// anonRole is carried by the provider's public anon key, which must never
// grant CMS access.
const anonRole = "anon"

// ProviderClaims are the claims of an access token issued by the auth provider.
type ProviderClaims struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	AppMetadata struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
	jwt.RegisteredClaims
}

// ProviderVerifier validates provider-issued bearer tokens.
type ProviderVerifier struct {
	secret []byte
	issuer string
}

// NewProviderVerifier returns nil when no JWT secret is configured, which
// disables bearer authentication.
func NewProviderVerifier(cfg config.Provider) *ProviderVerifier {
	if cfg.JWTSecret == "" {
		return nil
	}
	return &ProviderVerifier{
		secret: []byte(cfg.JWTSecret),
		issuer: strings.TrimRight(cfg.URL, "/"),
	}
}

// Verify parses and validates token and returns the principal it carries.
func (v *ProviderVerifier) Verify(token string) (*Principal, error) {
	if v == nil {
		return nil, ErrInvalidToken
	}

	var claims ProviderClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" || claims.Role == anonRole {
		return nil, ErrInvalidToken
	}
	if v.issuer != "" && !strings.HasPrefix(claims.Issuer, v.issuer) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}

	role := entities.UserRoleEditor
	if claims.AppMetadata.Role == string(entities.UserRoleAdmin) {
		role = entities.UserRoleAdmin
	}

	return &Principal{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    role,
		Source:  SourceProvider,
	}, nil
}
