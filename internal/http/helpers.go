package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/audit"
	"github.com/hayatfoundation/site/internal/auth"
	"github.com/hayatfoundation/site/internal/database/content"
	"github.com/hayatfoundation/site/internal/fieldmap"
	"github.com/hayatfoundation/site/internal/validation"
)

// --- Response Types ---

// ErrorResponse is the envelope of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"` // Validation field errors or the upstream message
}

// DataResponse wraps the result of a write or a singleton read.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ItemResponse wraps a public detail read.
type ItemResponse struct {
	Success bool `json:"success"`
	Item    any  `json:"item"`
}

type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// ListResponse wraps one page of a collection.
type ListResponse struct {
	Success    bool       `json:"success"`
	Items      any        `json:"items"`
	Total      int64      `json:"total"`
	Pagination Pagination `json:"pagination"`
}

func newListResponse(items any, total int64, limit, offset int) ListResponse {
	return ListResponse{
		Success: true,
		Items:   items,
		Total:   total,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: int64(offset+limit) < total,
		},
	}
}

// --- Error Response Helpers ---

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

// respondValidation sends a 400 with structured field errors when err carries
// them.
func respondValidation(c *gin.Context, err error) {
	resp := ErrorResponse{Error: "validation failed"}

	var decodeErr *fieldmap.DecodeError
	switch {
	case validation.Details(err) != nil:
		resp.Details = validation.Details(err)
	case errors.As(err, &decodeErr):
		resp.Details = []validation.FieldError{{Field: decodeErr.Key, Rule: "type"}}
	case errors.Is(err, content.ErrSlugTaken):
		resp.Error = err.Error()
		resp.Details = []validation.FieldError{{Field: "slug", Rule: "unique"}}
	default:
		resp.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, resource+" not found")
}

// respondUpstream reports a storage error as a bad request, forwarding the
// raw message.
func respondUpstream(c *gin.Context, err error, context string) {
	log.Warn().Err(err).Str("context", context).Msg("Upstream error")
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   context + " failed",
		Details: err.Error(),
	})
}

// respondInternal logs the error and sends a generic 500.
func respondInternal(c *gin.Context, err error, context string) {
	log.Error().Err(err).Str("context", context).Msg("Internal error")
	respondError(c, http.StatusInternalServerError, "internal server error")
}

// --- Success Response Helpers ---

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, DataResponse{Success: true, Data: data})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parsePage reads limit and offset, applying the default and maximum size.
func parsePage(c *gin.Context) (int, int, bool) {
	limit, offset := 0, 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respondBadRequest(c, "invalid limit")
			return 0, 0, false
		}
		limit = n
	}
	if s := c.Query("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respondBadRequest(c, "invalid offset")
			return 0, 0, false
		}
		offset = n
	}
	limit, offset = content.NormalizePage(limit, offset)
	return limit, offset, true
}

// actor describes the current principal for the audit trail.
func actor(c *gin.Context) audit.Actor {
	a := audit.Actor{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if p, ok := auth.CurrentPrincipal(c); ok {
		a.Name = p.Name()
		a.Source = string(p.Source)
	}
	return a
}
