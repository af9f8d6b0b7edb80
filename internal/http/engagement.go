package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/database/content"
	"github.com/hayatfoundation/site/internal/database/newsletter"
	"github.com/hayatfoundation/site/internal/entities"
	"github.com/hayatfoundation/site/internal/locale"
	"github.com/hayatfoundation/site/internal/validation"
)

// SubmissionsController accepts public volunteer requests and job
// applications.
type SubmissionsController struct {
	volunteers   *ResourceController[entities.VolunteerRequest]
	applications *ResourceController[entities.JobApplication]
	jobs         *content.Repository[entities.Job]
}

func NewSubmissionsController(
	volunteers *ResourceController[entities.VolunteerRequest],
	applications *ResourceController[entities.JobApplication],
	jobs *content.Repository[entities.Job],
) *SubmissionsController {
	return &SubmissionsController{volunteers: volunteers, applications: applications, jobs: jobs}
}

// CreateVolunteerRequest handles POST /api/volunteer-requests.
func (sc *SubmissionsController) CreateVolunteerRequest(c *gin.Context) {
	req, ok := sc.volunteers.decodeNew(c, func(r *entities.VolunteerRequest) {
		r.Status = entities.RequestStatusNew
		r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	})
	if !ok {
		return
	}
	if err := sc.volunteers.repo.Create(c.Request.Context(), req); err != nil {
		respondUpstream(c, err, "create volunteer request")
		return
	}
	respondData(c, http.StatusCreated, req)
}

// Apply handles POST /api/jobs/:key/apply. The job must be published and its
// deadline, if any, not passed.
func (sc *SubmissionsController) Apply(c *gin.Context) {
	ctx := c.Request.Context()

	job, err := sc.jobs.FindBySlug(ctx, c.Param("key"), true)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			respondNotFound(c, "job")
			return
		}
		respondUpstream(c, err, "get job")
		return
	}
	if job.Deadline != nil && job.Deadline.Before(time.Now()) {
		respondBadRequest(c, "applications for this job are closed")
		return
	}

	app, ok := sc.applications.decodeNew(c, func(a *entities.JobApplication) {
		a.JobID = job.ID
		a.Status = entities.RequestStatusNew
		a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	})
	if !ok {
		return
	}
	if err := sc.applications.repo.Create(ctx, app); err != nil {
		respondUpstream(c, err, "create job application")
		return
	}

	if err := sc.jobs.IncrementCounter(ctx, job.ID, "application_count"); err != nil {
		log.Warn().Err(err).Uint("job_id", job.ID).Msg("Failed to increment application count")
	}

	respondData(c, http.StatusCreated, app)
}

// NewsletterStore manages newsletter subscriptions.
type NewsletterStore interface {
	Subscribe(ctx context.Context, member *entities.NewsletterMember) (*entities.NewsletterMember, bool, error)
	Unsubscribe(ctx context.Context, email string) error
}

type NewsletterController struct {
	store     NewsletterStore
	validator *validation.Validator
}

func NewNewsletterController(store NewsletterStore, v *validation.Validator) *NewsletterController {
	return &NewsletterController{store: store, validator: v}
}

type subscribeRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// Subscribe handles POST /api/newsletter/subscribe. A new address answers
// 201; a known one answers 200 with alreadySubscribed and no new row.
func (nc *NewsletterController) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	lang := req.Language
	if !locale.Supported(lang) {
		lang = locale.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"))
	}
	member := &entities.NewsletterMember{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Name:     strings.TrimSpace(req.Name),
		Language: lang,
	}
	if err := nc.validator.Struct(member); err != nil {
		respondValidation(c, err)
		return
	}

	stored, created, err := nc.store.Subscribe(c.Request.Context(), member)
	if err != nil {
		respondUpstream(c, err, "subscribe")
		return
	}

	if created {
		respondData(c, http.StatusCreated, stored)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"data":              stored,
		"alreadySubscribed": true,
	})
}

type unsubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Unsubscribe handles POST /api/newsletter/unsubscribe.
func (nc *NewsletterController) Unsubscribe(c *gin.Context) {
	var req unsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "a valid email is required", Details: err.Error()})
		return
	}

	if err := nc.store.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, newsletter.ErrNotFound) {
			respondNotFound(c, "subscription")
			return
		}
		respondUpstream(c, err, "unsubscribe")
		return
	}
	respondData(c, http.StatusOK, gin.H{"unsubscribed": true})
}
