package auth

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/audit"
	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/entities"
)

// AuthRecorder receives login and logout outcomes for the audit trail.
type AuthRecorder interface {
	LogAuth(actor audit.Actor, action entities.AuditAction, success bool)
}

// AuthController handles the /api/auth endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
	recorder       AuthRecorder

	// setupMu serializes setup so concurrent requests cannot both pass the
	// no-users check.
	setupMu sync.Mutex
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type setupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// NewAuthController creates a new authentication controller. recorder may be nil.
func NewAuthController(service *Service, sessionManager *SessionManager, cfg config.Auth, recorder AuthRecorder) *AuthController {
	rateLimiter := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	})

	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		recorder:       recorder,
	}
}

// RegisterRoutes registers the auth endpoints on group (normally /api/auth).
func (ac *AuthController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/login", ac.Login)
	group.POST("/logout", ac.Logout)
	group.GET("/session", ac.Session)
	group.POST("/setup", ac.Setup)
	group.POST("/password", RequireAuth(), ac.ChangePassword)
}

// Stop releases the rate limiter's cleanup goroutine.
func (ac *AuthController) Stop() {
	if ac.rateLimiter != nil {
		ac.rateLimiter.Stop()
	}
}

// Login authenticates email and password and starts a cookie session.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "email and password are required",
			"details": err.Error(),
		})
		return
	}

	clientIP := c.ClientIP()

	if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, req.Email); !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   "too many login attempts, please try again later",
		})
		return
	}

	user, err := ac.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		ac.rateLimiter.RecordFailure(clientIP, req.Email)
		ac.record(c, req.Email, entities.AuditActionLogin, false)

		switch {
		case errors.Is(err, ErrAccountLocked):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": ErrAccountLocked.Error()})
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": ErrInvalidCredentials.Error()})
		default:
			log.Error().Err(err).Msg("Login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		}
		return
	}

	ac.rateLimiter.RecordSuccess(clientIP, req.Email)

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create session"})
		return
	}

	ac.record(c, user.Email, entities.AuditActionLogin, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    principalFromUser(user),
	})
}

// Logout destroys the cookie session. It succeeds without a session.
func (ac *AuthController) Logout(c *gin.Context) {
	loggedIn := ac.sessionManager.IsAuthenticated(c.Request)
	email := ac.sessionManager.GetEmail(c.Request)
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		log.Warn().Err(err).Msg("Failed to destroy session")
	}
	if loggedIn {
		ac.record(c, email, entities.AuditActionLogout, true)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session reports the current principal, whether initial setup is still
// pending, and the CSRF token the CMS client must echo on writes. Cookie
// sessions also carry their login time.
func (ac *AuthController) Session(c *gin.Context) {
	setupRequired := false
	hasUsers, err := ac.service.HasUsers(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to count users")
	} else {
		setupRequired = !hasUsers
	}

	data := gin.H{
		"authenticated": false,
		"setupRequired": setupRequired,
		"csrfToken":     GetCSRFToken(c),
	}
	if p, ok := CurrentPrincipal(c); ok {
		data["authenticated"] = true
		data["principal"] = p
		if sd := ac.sessionManager.GetSessionData(c.Request); sd != nil {
			data["session"] = sd
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Setup creates the first admin account. It is refused once any account exists.
func (ac *AuthController) Setup(c *gin.Context) {
	ac.setupMu.Lock()
	defer ac.setupMu.Unlock()

	hasUsers, err := ac.service.HasUsers(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to count users")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if hasUsers {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": ErrSetupComplete.Error()})
		return
	}

	var req setupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "email and password are required",
			"details": err.Error(),
		})
		return
	}

	user, err := ac.service.CreateUser(c.Request.Context(), req.Email, req.Name, req.Password, entities.UserRoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": ErrSetupComplete.Error()})
		case isInputError(err):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			log.Error().Err(err).Msg("Failed to create admin")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		}
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Warn().Err(err).Msg("Admin created but session could not be started")
	}

	log.Info().Str("email", user.Email).Msg("Initial admin account created")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    principalFromUser(user),
	})
}

// ChangePassword changes the password of the signed-in local account.
func (ac *AuthController) ChangePassword(c *gin.Context) {
	p, _ := CurrentPrincipal(c)
	if p.Source != SourceSession {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "password is managed by the identity provider",
		})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "currentPassword and newPassword are required",
			"details": err.Error(),
		})
		return
	}

	err := ac.service.ChangePassword(c.Request.Context(), p.UserID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "current password is incorrect"})
	case isInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		log.Error().Err(err).Uint("user_id", p.UserID).Msg("Failed to change password")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}

func (ac *AuthController) record(c *gin.Context, name string, action entities.AuditAction, success bool) {
	if ac.recorder == nil {
		return
	}
	ac.recorder.LogAuth(audit.Actor{
		Name:      name,
		Source:    string(SourceSession),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}, action, success)
}

func isInputError(err error) bool {
	for _, target := range []error{
		ErrEmailRequired, ErrEmailInvalid, ErrPasswordRequired,
		ErrPasswordTooShort, ErrPasswordTooLong, ErrInvalidRole,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
