package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

var testCSRFSecret = []byte("test-secret-key-32-bytes-long!!!")

func csrfRouter(provider *ProviderVerifier) *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false, provider))
	router.GET("/token", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token": GetCSRFToken(c)})
	})
	router.POST("/write", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestCSRFMiddleware_AllowsGETAndSetsToken(t *testing.T) {
	router := csrfRouter(nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/token", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), `"token":""`) {
		t.Error("expected a CSRF token in the context")
	}
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	handlerRan := false
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false, nil))
	router.POST("/write", func(c *gin.Context) {
		handlerRan = true
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/write", nil))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
	if handlerRan {
		t.Error("write handler ran after the CSRF check failed")
	}
	if rr.Body.String() != `{"success":false,"error":"CSRF token invalid or missing"}` {
		t.Errorf("expected a single JSON envelope, got %s", rr.Body.String())
	}
}

func TestCSRFMiddleware_AcceptsEchoedToken(t *testing.T) {
	router := csrfRouter(nil)

	var token string
	getRR := httptest.NewRecorder()
	getRouter := gin.New()
	getRouter.Use(CSRFMiddleware(testCSRFSecret, false, nil))
	getRouter.GET("/token", func(c *gin.Context) {
		token = GetCSRFToken(c)
		c.Status(http.StatusOK)
	})
	getRouter.ServeHTTP(getRR, httptest.NewRequest(http.MethodGet, "/token", nil))
	if token == "" {
		t.Fatal("expected a token")
	}

	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.Header.Set(CSRFTokenHeader, token)
	for _, cookie := range getRR.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 with echoed token, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCSRFMiddleware_SkipsValidBearer(t *testing.T) {
	router := csrfRouter(testVerifier())

	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.Header.Set("Authorization", "Bearer "+signProviderToken(t, testProviderSecret, nil))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 for valid bearer, got %d", rr.Code)
	}
}

func TestCSRFMiddleware_InvalidBearerStillChecked(t *testing.T) {
	router := csrfRouter(testVerifier())

	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for forged bearer, got %d", rr.Code)
	}
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if token := GetCSRFToken(c); token != "" {
		t.Errorf("expected empty token, got %q", token)
	}
}
