package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	dbaudit "github.com/hayatfoundation/site/internal/database/audit"
	"github.com/hayatfoundation/site/internal/entities"
)

// AuditReader lists audit events.
type AuditReader interface {
	GetEvents(ctx context.Context, q dbaudit.Query) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{reader: reader}
}

// GetAuditEvents returns paginated audit events, newest first.
// GET /api/cms/audit-events?actor=&entityType=&action=&limit=&offset=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit, offset, ok := parsePage(c)
	if !ok {
		return
	}

	events, total, err := ac.reader.GetEvents(c.Request.Context(), dbaudit.Query{
		Actor:      c.Query("actor"),
		EntityType: c.Query("entityType"),
		Action:     entities.AuditAction(c.Query("action")),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondUpstream(c, err, "load audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, newListResponse(events, total, limit, offset))
}

// ListActions returns the recorded action kinds for the CMS filter.
// GET /api/cms/audit-events/actions
func (ac *AuditController) ListActions(c *gin.Context) {
	respondData(c, http.StatusOK, []entities.AuditAction{
		entities.AuditActionCreate,
		entities.AuditActionUpdate,
		entities.AuditActionDelete,
		entities.AuditActionBulkDelete,
		entities.AuditActionUpload,
		entities.AuditActionLogin,
		entities.AuditActionLogout,
	})
}
