package http

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hayatfoundation/site/internal/auth"
	"github.com/hayatfoundation/site/internal/database/content"
	"github.com/hayatfoundation/site/internal/database/donations"
	"github.com/hayatfoundation/site/internal/database/newsletter"
	"github.com/hayatfoundation/site/internal/database/stats"
	"github.com/hayatfoundation/site/internal/entities"
	"github.com/hayatfoundation/site/internal/tasks"
	"github.com/hayatfoundation/site/internal/validation"
)

var (
	titleSearch    = []string{"title_en", "title_ar", "description_en", "description_ar"}
	articleSearch  = []string{"title_en", "title_ar", "excerpt_en", "excerpt_ar", "content_en", "content_ar"}
	nameSearch     = []string{"name_en", "name_ar"}
	personSearch   = []string{"name_en", "name_ar", "position_en", "position_ar"}
	applicantQuery = []string{"full_name", "email"}
)

// taskQueue hands thumbnail jobs to the background queue.
type taskQueue struct {
	client *tasks.Client
}

func (q taskQueue) EnqueueThumbnail(task tasks.GenerateThumbnailTask) error {
	_, err := q.client.Add(task).Save()
	return err
}

type resourceDeps struct {
	db        *gorm.DB
	validator *validation.Validator
	audit     WriteAuditor
}

func newResource[T entities.Record](d resourceDeps, repoOpts content.Options, opts resourceOptions) *ResourceController[T] {
	repo := content.NewRepository[T](d.db, repoOpts)
	return NewResourceController(repo, d.validator, d.audit, opts)
}

// NewRouter creates and configures the HTTP router with all endpoints. The
// returned stop function releases background helpers (the login rate limiter).
func NewRouter(cfg RouterConfig) (*gin.Engine, func()) {
	router := gin.New()
	router.Use(AccessLog())
	router.Use(Recovery())

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	router.Use(auth.NewMiddleware(cfg.AuthService, cfg.SessionManager, cfg.Provider).Handler())

	if cfg.UploadDir != "" && cfg.UploadPublicPath != "" {
		router.Static(cfg.UploadPublicPath, cfg.UploadDir)
	}

	validator := cfg.Validator
	if validator == nil {
		validator = validation.New()
	}
	var auditor WriteAuditor = noopAuditor{}
	if cfg.Audit != nil {
		auditor = cfg.Audit
	}
	db := cfg.Database.DB
	deps := resourceDeps{db: db, validator: validator, audit: auditor}

	var tasksRunning func() bool
	if cfg.TaskClient != nil {
		tasksRunning = cfg.TaskClient.Started
	}
	health := NewHealthController(cfg.Database, cfg.Version, tasksRunning)
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)

	api := router.Group("/api")

	csrf := func(c *gin.Context) { c.Next() }
	if len(cfg.CSRFSecret) > 0 {
		csrf = auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.Provider)
	}

	stop := func() {}
	if cfg.AuthService != nil && cfg.SessionManager != nil {
		var recorder auth.AuthRecorder
		if cfg.Audit != nil {
			recorder = cfg.Audit
		}
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig, recorder)
		authController.RegisterRoutes(api.Group("/auth", csrf))
		stop = authController.Stop
	}

	cms := api.Group("/cms", csrf, auth.RequireAuth())
	admin := cms.Group("", auth.RequireRole(entities.UserRoleAdmin))

	// Content
	programs := newResource[entities.Program](deps,
		content.Options{SearchColumns: append(titleSearch, "content_en", "content_ar"), CounterColumn: "page_views"},
		resourceOptions{Name: "programs", Label: "program", Public: true})
	news := newResource[entities.News](deps,
		content.Options{SearchColumns: articleSearch, CounterColumn: "page_views", DefaultOrderBy: "published_at"},
		resourceOptions{Name: "news", Public: true, Filters: []string{"programId", "categoryId", "isFeatured"}})
	projects := newResource[entities.Project](deps,
		content.Options{SearchColumns: append(titleSearch, "location_en", "location_ar"), CounterColumn: "page_views"},
		resourceOptions{Name: "projects", Label: "project", Public: true, Filters: []string{"programId", "categoryId", "status", "isFeatured"}})
	activities := newResource[entities.Activity](deps,
		content.Options{SearchColumns: titleSearch, CounterColumn: "page_views", DefaultOrderBy: "activity_date"},
		resourceOptions{Name: "activities", Label: "activity", Public: true, Filters: []string{"programId", "projectId"}})
	stories := newResource[entities.SuccessStory](deps,
		content.Options{SearchColumns: articleSearch, CounterColumn: "page_views"},
		resourceOptions{Name: "success-stories", Label: "success story", Public: true, Filters: []string{"programId", "projectId", "isFeatured"}})

	// Media
	publications := newResource[entities.Publication](deps,
		content.Options{SearchColumns: titleSearch, CounterColumn: "downloads"},
		resourceOptions{Name: "publications", Label: "publication", Public: true, Filters: []string{"categoryId", "publicationType"}})
	reports := newResource[entities.Report](deps,
		content.Options{SearchColumns: titleSearch, CounterColumn: "downloads", DefaultOrderBy: "year"},
		resourceOptions{Name: "reports", Label: "report", Public: true, Filters: []string{"reportType", "year"}})
	videos := newResource[entities.Video](deps,
		content.Options{SearchColumns: titleSearch, CounterColumn: "views"},
		resourceOptions{Name: "videos", Label: "video", Public: true, Filters: []string{"categoryId", "isFeatured"}})
	images := newResource[entities.Image](deps,
		content.Options{SearchColumns: titleSearch, CounterColumn: "views"},
		resourceOptions{Name: "images", Label: "image", Public: true, Filters: []string{"categoryId"}})
	mediaCategories := newResource[entities.MediaCategory](deps,
		content.Options{SearchColumns: nameSearch, DefaultOrderBy: "sort_order"},
		resourceOptions{Name: "media-categories", Label: "media category", Public: true})
	newsCategories := newResource[entities.NewsCategory](deps,
		content.Options{SearchColumns: nameSearch, DefaultOrderBy: "sort_order"},
		resourceOptions{Name: "news-categories", Label: "news category", Public: true})
	projectCategories := newResource[entities.ProjectCategory](deps,
		content.Options{SearchColumns: nameSearch, DefaultOrderBy: "sort_order"},
		resourceOptions{Name: "project-categories", Label: "project category", Public: true})

	// Site
	jobs := newResource[entities.Job](deps,
		content.Options{SearchColumns: append(titleSearch, "location_en", "location_ar"), CounterColumn: "page_views"},
		resourceOptions{Name: "jobs", Label: "job", Public: true, Filters: []string{"employmentType"}})
	faqs := newResource[entities.FAQ](deps,
		content.Options{SearchColumns: []string{"question_en", "question_ar", "answer_en", "answer_ar"}, DefaultOrderBy: "sort_order"},
		resourceOptions{Name: "faqs", Label: "faq", Public: true, Filters: []string{"category"}})
	heroSlides := newResource[entities.HeroSlide](deps,
		content.Options{SearchColumns: []string{"title_en", "title_ar"}, DefaultOrderBy: "sort_order"},
		resourceOptions{Name: "hero-slides", Label: "hero slide", Public: true})
	bankAccounts := newResource[entities.BankAccount](deps,
		content.Options{SearchColumns: []string{"bank_name_en", "bank_name_ar"}, DefaultOrderBy: "sort_order"},
		resourceOptions{Name: "bank-accounts", Label: "bank account", Public: true, Filters: []string{"currency"}})
	teamMembers := newResource[entities.TeamMember](deps,
		content.Options{SearchColumns: personSearch, DefaultOrderBy: "sort_order"},
		resourceOptions{Name: "team-members", Label: "team member", Public: true})
	directors := newResource[entities.DirectorMember](deps,
		content.Options{SearchColumns: personSearch, DefaultOrderBy: "sort_order"},
		resourceOptions{Name: "directors", Label: "director", Public: true})
	partners := newResource[entities.Partner](deps,
		content.Options{SearchColumns: nameSearch, DefaultOrderBy: "sort_order"},
		resourceOptions{Name: "partners", Label: "partner", Public: true})
	profile := newResource[entities.FoundationProfile](deps,
		content.Options{},
		resourceOptions{Name: "foundation-profile", Label: "foundation profile"})

	// Submissions (CMS only)
	donationResource := newResource[entities.Donation](deps,
		content.Options{SearchColumns: []string{"donor_name", "email", "payment_reference"}},
		resourceOptions{Name: "donations", Label: "donation", Filters: []string{"status", "method", "programId", "projectId"}})
	newsletterMembers := newResource[entities.NewsletterMember](deps,
		content.Options{SearchColumns: []string{"email", "name"}},
		resourceOptions{Name: "newsletter-members", Label: "newsletter member", Filters: []string{"isActive", "language"}})
	volunteers := newResource[entities.VolunteerRequest](deps,
		content.Options{SearchColumns: append(applicantQuery, "city", "skills")},
		resourceOptions{Name: "volunteer-requests", Label: "volunteer request", Filters: []string{"status", "programId"}})
	applications := newResource[entities.JobApplication](deps,
		content.Options{SearchColumns: applicantQuery},
		resourceOptions{Name: "job-applications", Label: "job application", Filters: []string{"status", "jobId"}})

	programs.RegisterRoutes(api, cms)
	news.RegisterRoutes(api, cms)
	projects.RegisterRoutes(api, cms)
	activities.RegisterRoutes(api, cms)
	stories.RegisterRoutes(api, cms)
	publications.RegisterRoutes(api, cms)
	reports.RegisterRoutes(api, cms)
	videos.RegisterRoutes(api, cms)
	images.RegisterRoutes(api, cms)
	mediaCategories.RegisterRoutes(api, cms)
	newsCategories.RegisterRoutes(api, cms)
	projectCategories.RegisterRoutes(api, cms)
	jobs.RegisterRoutes(api, cms)
	faqs.RegisterRoutes(api, cms)
	heroSlides.RegisterRoutes(api, cms)
	bankAccounts.RegisterRoutes(api, cms)
	teamMembers.RegisterRoutes(api, cms)
	directors.RegisterRoutes(api, cms)
	partners.RegisterRoutes(api, cms)
	donationResource.RegisterRoutes(nil, cms)
	newsletterMembers.RegisterRoutes(nil, cms)
	volunteers.RegisterRoutes(nil, cms)
	applications.RegisterRoutes(nil, cms)

	profileController := NewProfileController(profile)
	api.GET("/foundation-profile", profileController.Get)
	cms.GET("/foundation-profile", profileController.Get)
	cms.PATCH("/foundation-profile", profileController.Update)

	statsController := NewStatsController(stats.NewRepository(db))
	api.GET("/stats", statsController.Stats)

	// Public submissions
	donationsController := NewDonationsController(donationResource, donations.NewRepository(db), cfg.Payments, cfg.Currency, cfg.SiteURL)
	api.POST("/donations", donationsController.Create)

	submissions := NewSubmissionsController(volunteers, applications, jobs.repo)
	api.POST("/volunteer-requests", submissions.CreateVolunteerRequest)
	api.POST("/jobs/:key/apply", submissions.Apply)

	newsletterController := NewNewsletterController(newsletter.NewRepository(db), validator)
	api.POST("/newsletter/subscribe", newsletterController.Subscribe)
	api.POST("/newsletter/unsubscribe", newsletterController.Unsubscribe)

	// Uploads
	if cfg.Storage != nil {
		var queue ThumbnailQueue
		if cfg.TaskClient != nil {
			queue = taskQueue{client: cfg.TaskClient}
		}
		uploads := NewUploadsController(cfg.Storage, cfg.MaxUploadBytes, images, cfg.Thumbnailer, queue)
		api.POST("/uploads", uploads.UploadAttachment)
		cms.POST("/uploads", uploads.UploadCMS)
		cms.POST("/images/upload", uploads.UploadImage)
	}

	// Administration
	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		admin.GET("/audit-events", auditController.GetAuditEvents)
		admin.GET("/audit-events/actions", auditController.ListActions)
	}

	var runner TaskRunner
	if cfg.TaskClient != nil {
		runner = cfg.TaskClient
	}
	keys, _ := cfg.Storage.(KeyResolver)
	tasksController := NewTasksController(runner, cfg.Scheduler, images.repo, keys, cfg.StaleDonationAge, cfg.AuditRetentionDays)
	admin.GET("/tasks/types", tasksController.ListTaskTypes)
	admin.GET("/tasks/:id", tasksController.GetTaskStatus)
	admin.POST("/tasks/:type/run", tasksController.RunTask)
	admin.GET("/schedule", tasksController.ScheduleStatus)
	admin.POST("/schedule/:name/run", tasksController.RunScheduledJob)

	return router, stop
}
