package audit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/database/audit"
	"github.com/hayatfoundation/site/internal/entities"
)

// Actor identifies who performed an audited action.
type Actor struct {
	Name      string
	Source    string
	IP        string
	UserAgent string
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo     *audit.Repository
	archiver *Archiver
	wg       sync.WaitGroup
}

// NewService creates a new audit service. archiver may be nil.
func NewService(repo *audit.Repository, archiver *Archiver) *Service {
	return &Service{repo: repo, archiver: archiver}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Log(context.Background(), event); err != nil {
			log.Error().Err(err).Str("action", string(event.Action)).Msg("Failed to log audit event")
		}
	}()
}

// Wait blocks until every pending LogAsync write has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogWrite records a CMS write on entityType.
func (s *Service) LogWrite(actor Actor, action entities.AuditAction, entityType string, ids []uint, description string, err error) {
	event := s.newEvent(actor, action)
	event.EntityType = entityType
	event.EntityIDs = truncate(joinIDs(ids), 1000)
	event.Description = truncate(description, 500)
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

// LogAuth records a login or logout.
func (s *Service) LogAuth(actor Actor, action entities.AuditAction, success bool) {
	event := s.newEvent(actor, action)
	if !success {
		event.Status = entities.AuditStatusFailed
	}
	s.LogAsync(event)
}

// Archive snapshots records that are about to be deleted and returns the
// archive file name, or "" when archiving is disabled.
func (s *Service) Archive(actor Actor, entityType string, records any) (string, error) {
	if s.archiver == nil {
		return "", nil
	}
	return s.archiver.SaveJSON(Snapshot{
		EntityType: entityType,
		DeletedBy:  actor.Name,
		DeletedAt:  time.Now(),
		Records:    records,
	})
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, q audit.Query) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, q)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func (s *Service) newEvent(actor Actor, action entities.AuditAction) *entities.AuditEvent {
	return &entities.AuditEvent{
		Actor:       truncate(actor.Name, 255),
		ActorSource: actor.Source,
		Action:      action,
		IPAddress:   actor.IP,
		UserAgent:   truncate(actor.UserAgent, 500),
		Status:      entities.AuditStatusSuccess,
	}
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}

// truncate shortens s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
