package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hayatfoundation/site/internal/entities"
)

// Middleware resolves the request principal.
type Middleware struct {
	service  *Service
	sessions *SessionManager
	provider *ProviderVerifier
}

// NewMiddleware creates the principal-resolving middleware. sessions and
// provider may be nil to disable the corresponding credential source.
func NewMiddleware(service *Service, sessions *SessionManager, provider *ProviderVerifier) *Middleware {
	return &Middleware{
		service:  service,
		sessions: sessions,
		provider: provider,
	}
}

// Handler resolves the principal once and stores it in the context. It never
// rejects a request; RequireAuth does that for protected groups.
//
// A request carrying a bearer token is judged by that token alone, so an
// invalid token never falls back to a cookie session.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if p, err := m.provider.Verify(token); err == nil {
				SetPrincipal(c, p)
			}
			c.Next()
			return
		}

		if p := m.sessionPrincipal(c); p != nil {
			SetPrincipal(c, p)
		}
		c.Next()
	}
}

func (m *Middleware) sessionPrincipal(c *gin.Context) *Principal {
	if m.sessions == nil || m.service == nil {
		return nil
	}

	userID := m.sessions.GetUserID(c.Request)
	if userID == 0 {
		return nil
	}

	// Re-read the account so deleted users lose access immediately.
	user, err := m.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	return principalFromUser(user)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// RequireAuth rejects requests without a principal.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   ErrAuthRequired.Error(),
			})
			return
		}
		c.Next()
	}
}

// RequireRole rejects principals whose role is not listed.
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	roleSet := make(map[entities.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   ErrAuthRequired.Error(),
			})
			return
		}
		if !roleSet[p.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}
