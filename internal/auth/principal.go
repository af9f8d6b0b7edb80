package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/hayatfoundation/site/internal/entities"
)

const contextKeyPrincipal = "auth_principal"

// Source tells how a principal was authenticated.
type Source string

const (
	SourceSession  Source = "session"
	SourceProvider Source = "provider"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID  uint              `json:"userId,omitempty"` // Local users only
	Subject string            `json:"subject"`
	Email   string            `json:"email"`
	Role    entities.UserRole `json:"role"`
	Source  Source            `json:"source"`
}

// Name identifies the principal in logs and the audit trail.
func (p *Principal) Name() string {
	if p.Email != "" {
		return p.Email
	}
	return p.Subject
}

func principalFromUser(user *entities.User) *Principal {
	return &Principal{
		UserID:  user.ID,
		Subject: user.Email,
		Email:   user.Email,
		Role:    user.Role,
		Source:  SourceSession,
	}
}

// SetPrincipal stores p in the request context.
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(contextKeyPrincipal, p)
}

// CurrentPrincipal returns the principal resolved for this request.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(contextKeyPrincipal)
	if !exists {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}
