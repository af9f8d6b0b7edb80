package auth

import (
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/entities"
)

// Session data keys
const (
	SessionKeyUserID  = "user_id"
	SessionKeyEmail   = "email"
	SessionKeyRole    = "role"
	SessionKeyLoginAt = "login_at"
)

const sessionsSchema = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

func init() {
	gob.Register(entities.UserRole(""))
	gob.Register(time.Time{})
}

// SessionManager wraps scs.SessionManager with CMS-specific accessors.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager. With SQLite the
// sessions live in the application database (sqlDB is GORM's *sql.DB);
// other drivers keep them in memory.
func NewSessionManager(sqlDB *sql.DB, driver config.DatabaseDriver, cfg config.Auth) (*SessionManager, error) {
	sm := scs.New()

	switch driver {
	case config.DatabaseDriverSQLite, "":
		if _, err := sqlDB.Exec(sessionsSchema); err != nil {
			return nil, err
		}
		sm.Store = sqlite3store.New(sqlDB)
	default:
		log.Warn().Str("driver", string(driver)).Msg("Using in-memory session store; sessions will not survive restarts")
		sm.Store = memstore.New()
	}

	sm.Lifetime = cfg.SessionLifetime
	if sm.Lifetime <= 0 {
		sm.Lifetime = 24 * time.Hour
	}
	sm.IdleTimeout = sm.Lifetime / 2

	sm.Cookie.Name = "cms_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession stores user in a fresh session after successful authentication.
func (sm *SessionManager) CreateSession(r *http.Request, user *entities.User) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	sm.Put(r.Context(), SessionKeyUserID, int(user.ID))
	sm.Put(r.Context(), SessionKeyEmail, user.Email)
	sm.Put(r.Context(), SessionKeyRole, user.Role)
	sm.Put(r.Context(), SessionKeyLoginAt, time.Now())

	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetUserID returns the session's user ID, or 0 when not logged in.
func (sm *SessionManager) GetUserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

func (sm *SessionManager) GetEmail(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyEmail)
}

func (sm *SessionManager) GetUserRole(r *http.Request) entities.UserRole {
	role, ok := sm.Get(r.Context(), SessionKeyRole).(entities.UserRole)
	if !ok {
		return ""
	}
	return role
}

func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.GetUserID(r) != 0
}

// SessionData holds the session information for a request.
type SessionData struct {
	UserID  uint              `json:"userId"`
	Email   string            `json:"email"`
	Role    entities.UserRole `json:"role"`
	LoginAt time.Time         `json:"loginAt"`
}

// GetSessionData retrieves all session data at once, or nil when not logged in.
func (sm *SessionManager) GetSessionData(r *http.Request) *SessionData {
	userID := sm.GetUserID(r)
	if userID == 0 {
		return nil
	}

	loginAt, _ := sm.Get(r.Context(), SessionKeyLoginAt).(time.Time)

	return &SessionData{
		UserID:  userID,
		Email:   sm.GetEmail(r),
		Role:    sm.GetUserRole(r),
		LoginAt: loginAt,
	}
}
