package http

import (
	"time"

	"github.com/hayatfoundation/site/internal/audit"
	"github.com/hayatfoundation/site/internal/auth"
	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/database"
	"github.com/hayatfoundation/site/internal/payments"
	"github.com/hayatfoundation/site/internal/scheduler"
	"github.com/hayatfoundation/site/internal/storage"
	"github.com/hayatfoundation/site/internal/tasks"
	"github.com/hayatfoundation/site/internal/validation"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Validator *validation.Validator
	Audit     *audit.Service // Optional; writes go unrecorded when nil

	// Uploads
	Storage          storage.Client
	UploadDir        string // Served statically under UploadPublicPath when set
	UploadPublicPath string
	MaxUploadBytes   int64
	Thumbnailer      tasks.ThumbnailGenerator

	// Background work (optional)
	TaskClient         *tasks.Client
	Scheduler          *scheduler.Scheduler
	StaleDonationAge   time.Duration
	AuditRetentionDays int

	// Donations
	Payments payments.Gateway // nil records card donations without a checkout
	Currency string
	SiteURL  string

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	Provider       *auth.ProviderVerifier
	AuthConfig     config.Auth
	CSRFSecret     []byte // Empty disables CSRF protection
	SecureCookies  bool

	// Application info
	Version string
}
