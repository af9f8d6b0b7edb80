package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header the CMS client echoes the token in.
const CSRFTokenHeader = "X-CSRF-Token"

const contextKeyCSRFToken = "csrf_token"

// CSRFMiddleware creates a Gin middleware for CSRF protection of
// cookie-authenticated requests. It skips the check for:
//   - requests carrying a bearer token the provider verifier accepts
//   - safe HTTP methods (GET, HEAD, OPTIONS, TRACE)
//
// secure=false marks requests as plaintext so local HTTP development does
// not fail gorilla/csrf's TLS referer check.
func CSRFMiddleware(secret []byte, secure bool, provider *ProviderVerifier) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if hasValidBearer(c, provider) {
			c.Next()
			return
		}

		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		passed := false
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(contextKeyCSRFToken, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)

		// The error handler has already written the 403.
		if !passed {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"success":false,"error":"CSRF token invalid or missing"}`))
}

func hasValidBearer(c *gin.Context, provider *ProviderVerifier) bool {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return false
	}
	_, err := provider.Verify(token)
	return err == nil
}

// GetCSRFToken retrieves the CSRF token from the Gin context.
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get(contextKeyCSRFToken); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}
