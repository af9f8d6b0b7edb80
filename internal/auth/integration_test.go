package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hayatfoundation/site/internal/audit"
	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/database/users"
	"github.com/hayatfoundation/site/internal/entities"
)

type recordedAuth struct {
	actor   audit.Actor
	action  entities.AuditAction
	success bool
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recordedAuth
}

func (f *fakeRecorder) LogAuth(actor audit.Actor, action entities.AuditAction, success bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedAuth{actor: actor, action: action, success: success})
}

type testEnv struct {
	router   *gin.Engine
	service  *Service
	recorder *fakeRecorder
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get SQL DB: %v", err)
	}

	cfg := config.Auth{
		SessionLifetime:  24 * time.Hour,
		BcryptCost:       4,
		MaxLoginAttempts: 3,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  time.Minute,
	}

	svc := NewService(users.NewRepository(db), cfg)
	sm, err := NewSessionManager(sqlDB, config.DatabaseDriverSQLite, cfg)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	recorder := &fakeRecorder{}
	controller := NewAuthController(svc, sm, cfg, recorder)
	t.Cleanup(controller.Stop)

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.Use(NewMiddleware(svc, sm, testVerifier()).Handler())

	controller.RegisterRoutes(router.Group("/api/auth"))
	router.GET("/api/cms/ping", RequireAuth(), func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": p.Name()})
	})

	return &testEnv{router: router, service: svc, recorder: recorder}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func sessionCookies(rr *httptest.ResponseRecorder) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "cms_session" && c.Value != "" {
			out = append(out, c)
		}
	}
	return out
}

type sessionResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Authenticated bool       `json:"authenticated"`
		SetupRequired bool       `json:"setupRequired"`
		Principal     *Principal   `json:"principal"`
		Session       *SessionData `json:"session"`
	} `json:"data"`
}

func decodeSession(t *testing.T, rr *httptest.ResponseRecorder) sessionResponse {
	t.Helper()
	var resp sessionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode session response: %v", err)
	}
	return resp
}

func TestIntegration_SetupFlow(t *testing.T) {
	env := setupTestRouter(t)

	rr := env.do(t, http.MethodGet, "/api/auth/session", nil, nil)
	if resp := decodeSession(t, rr); !resp.Data.SetupRequired || resp.Data.Authenticated {
		t.Fatalf("expected setup required for empty database, got %+v", resp.Data)
	}

	rr = env.do(t, http.MethodPost, "/api/auth/setup", gin.H{"email": "admin@example.org", "password": "short"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/api/auth/setup", gin.H{
		"email":    "admin@example.org",
		"name":     "Admin",
		"password": testPassword,
	}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	cookies := sessionCookies(rr)
	if len(cookies) == 0 {
		t.Fatal("expected setup to start a session")
	}

	rr = env.do(t, http.MethodGet, "/api/auth/session", nil, cookies)
	resp := decodeSession(t, rr)
	if !resp.Data.Authenticated || resp.Data.SetupRequired {
		t.Fatalf("expected authenticated session after setup, got %+v", resp.Data)
	}
	if resp.Data.Principal.Role != entities.UserRoleAdmin {
		t.Errorf("expected admin role, got %q", resp.Data.Principal.Role)
	}

	rr = env.do(t, http.MethodPost, "/api/auth/setup", gin.H{
		"email":    "second@example.org",
		"password": testPassword,
	}, nil)
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403 once an account exists, got %d", rr.Code)
	}
}

func TestIntegration_SessionLoginLogoutFlow(t *testing.T) {
	env := setupTestRouter(t)
	if _, err := env.service.CreateUser(context.Background(), "editor@example.org", "Editor", testPassword, entities.UserRoleEditor); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	rr := env.do(t, http.MethodGet, "/api/cms/ping", nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "editor@example.org", "password": "wrong-password-1"}, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "Editor@Example.org", "password": testPassword}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	cookies := sessionCookies(rr)
	if len(cookies) == 0 {
		t.Fatal("expected session cookie after login")
	}

	rr = env.do(t, http.MethodGet, "/api/cms/ping", nil, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", rr.Code)
	}

	resp := decodeSession(t, env.do(t, http.MethodGet, "/api/auth/session", nil, cookies))
	if resp.Data.Session == nil {
		t.Fatal("expected cookie session details")
	}
	if resp.Data.Session.Email != "editor@example.org" || resp.Data.Session.Role != entities.UserRoleEditor {
		t.Errorf("unexpected session details: %+v", resp.Data.Session)
	}
	if resp.Data.Session.LoginAt.IsZero() {
		t.Error("expected login time in session details")
	}

	rr = env.do(t, http.MethodPost, "/api/auth/logout", nil, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/api/cms/ping", nil, cookies)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with destroyed session, got %d", rr.Code)
	}

	env.recorder.mu.Lock()
	defer env.recorder.mu.Unlock()
	if len(env.recorder.events) != 3 {
		t.Fatalf("expected 3 audit events, got %d", len(env.recorder.events))
	}
	if env.recorder.events[0].success || env.recorder.events[0].action != entities.AuditActionLogin {
		t.Errorf("expected failed login first, got %+v", env.recorder.events[0])
	}
	if !env.recorder.events[1].success || env.recorder.events[1].actor.Name != "editor@example.org" {
		t.Errorf("expected successful login second, got %+v", env.recorder.events[1])
	}
	if env.recorder.events[2].action != entities.AuditActionLogout {
		t.Errorf("expected logout last, got %+v", env.recorder.events[2])
	}
}

func TestIntegration_LoginRateLimited(t *testing.T) {
	env := setupTestRouter(t)

	for i := 0; i < 3; i++ {
		rr := env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ghost@example.org", "password": "wrong-password-1"}, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rr.Code)
		}
	}

	rr := env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ghost@example.org", "password": "wrong-password-1"}, nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestIntegration_LoginValidation(t *testing.T) {
	env := setupTestRouter(t)

	rr := env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "not-an-email"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestIntegration_BearerTokenAuth(t *testing.T) {
	env := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cms/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signProviderToken(t, testProviderSecret, nil))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for provider token, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cms/ping", nil)
	req.Header.Set("Authorization", "Bearer malformed")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for malformed token, got %d", rr.Code)
	}
}

func TestIntegration_InvalidBearerDoesNotFallBackToSession(t *testing.T) {
	env := setupTestRouter(t)
	if _, err := env.service.CreateUser(context.Background(), "editor@example.org", "", testPassword, entities.UserRoleEditor); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	rr := env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "editor@example.org", "password": testPassword}, nil)
	cookies := sessionCookies(rr)

	req := httptest.NewRequest(http.MethodGet, "/api/cms/ping", nil)
	req.Header.Set("Authorization", "Bearer forged")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestIntegration_PasswordChangeFlow(t *testing.T) {
	env := setupTestRouter(t)
	if _, err := env.service.CreateUser(context.Background(), "editor@example.org", "", testPassword, entities.UserRoleEditor); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	rr := env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "editor@example.org", "password": testPassword}, nil)
	cookies := sessionCookies(rr)

	rr = env.do(t, http.MethodPost, "/api/auth/password", gin.H{
		"currentPassword": "wrong-password-1",
		"newPassword":     "a-brand-new-password",
	}, cookies)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong current password, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/api/auth/password", gin.H{
		"currentPassword": testPassword,
		"newPassword":     "a-brand-new-password",
	}, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "editor@example.org", "password": "a-brand-new-password"}, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("expected login with new password, got %d", rr.Code)
	}
}
