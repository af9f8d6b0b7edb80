package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiter_LocksAfterMaxAttempts(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 3, WindowDuration: time.Minute, LockoutDuration: time.Minute})
	defer rl.Stop()

	for i := 0; i < 2; i++ {
		if allowed, _ := rl.Allow("10.0.0.1", "a@example.org"); !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		if locked, _ := rl.RecordFailure("10.0.0.1", "a@example.org"); locked {
			t.Fatalf("attempt %d should not lock", i+1)
		}
	}

	locked, retryAfter := rl.RecordFailure("10.0.0.1", "a@example.org")
	if !locked || retryAfter != time.Minute {
		t.Fatalf("expected lockout of 1m, got locked=%v retry=%v", locked, retryAfter)
	}

	if allowed, wait := rl.Allow("10.0.0.1", "A@Example.org "); allowed || wait <= 0 {
		t.Errorf("expected normalized email to stay locked, got allowed=%v wait=%v", allowed, wait)
	}
}

func TestRateLimiter_SuccessResetsCounter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 2})
	defer rl.Stop()

	rl.RecordFailure("10.0.0.1", "a@example.org")
	rl.RecordSuccess("10.0.0.1", "a@example.org")
	rl.RecordFailure("10.0.0.1", "a@example.org")

	if allowed, _ := rl.Allow("10.0.0.1", "a@example.org"); !allowed {
		t.Error("expected success to reset the counter")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 1})
	defer rl.Stop()

	rl.RecordFailure("10.0.0.1", "a@example.org")

	if allowed, _ := rl.Allow("10.0.0.1", "b@example.org"); !allowed {
		t.Error("other email from same IP should be allowed")
	}
	if allowed, _ := rl.Allow("10.0.0.2", "a@example.org"); !allowed {
		t.Error("same email from other IP should be allowed")
	}
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 5, WindowDuration: time.Millisecond})
	defer rl.Stop()

	rl.RecordFailure("10.0.0.1", "a@example.org")
	time.Sleep(5 * time.Millisecond)
	rl.cleanup()

	if allowed, _ := rl.Allow("10.0.0.1", "a@example.org"); !allowed {
		t.Error("expected expired window to allow attempts")
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	expected := map[string]string{
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	}
	for header, want := range expected {
		if got := rr.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rr.Header().Get("Permissions-Policy") == "" {
		t.Error("expected Permissions-Policy header")
	}
}

func TestHSTSHeader(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS behind a TLS-terminating proxy")
	}
}
