package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/hayatfoundation/site/internal/audit"
	"github.com/hayatfoundation/site/internal/auth"
	"github.com/hayatfoundation/site/internal/database"
	"github.com/hayatfoundation/site/internal/database/donations"
	"github.com/hayatfoundation/site/internal/database/newsletter"
	"github.com/hayatfoundation/site/internal/database/stats"
	"github.com/hayatfoundation/site/internal/http"
	"github.com/hayatfoundation/site/internal/media"
	"github.com/hayatfoundation/site/internal/payments"
	"github.com/hayatfoundation/site/internal/scheduler"
	"github.com/hayatfoundation/site/internal/storage"
	"github.com/hayatfoundation/site/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.DonationStore = (*donations.Repository)(nil)
var _ http.NewsletterStore = (*newsletter.Repository)(nil)
var _ http.StatsReader = (*stats.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Auditing
// =============================================================================

var _ http.WriteAuditor = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ auth.AuthRecorder = (*audit.Service)(nil)

// =============================================================================
// Storage and Media
// =============================================================================

var _ storage.Client = (*storage.Local)(nil)
var _ http.KeyResolver = (*storage.Local)(nil)
var _ tasks.ThumbnailGenerator = (*media.Thumbnailer)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskRunner = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ tasks.DonationExpirer = (*donations.Repository)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Payments
// =============================================================================

var _ payments.Gateway = (*payments.SnapGateway)(nil)
