package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/audit"
	"github.com/hayatfoundation/site/internal/auth"
	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/database"
	dbaudit "github.com/hayatfoundation/site/internal/database/audit"
	"github.com/hayatfoundation/site/internal/database/content"
	"github.com/hayatfoundation/site/internal/database/donations"
	"github.com/hayatfoundation/site/internal/database/users"
	"github.com/hayatfoundation/site/internal/entities"
	http_controllers "github.com/hayatfoundation/site/internal/http"
	"github.com/hayatfoundation/site/internal/logger"
	"github.com/hayatfoundation/site/internal/media"
	"github.com/hayatfoundation/site/internal/payments"
	"github.com/hayatfoundation/site/internal/scheduler"
	"github.com/hayatfoundation/site/internal/storage"
	"github.com/hayatfoundation/site/internal/tasks"
	"github.com/hayatfoundation/site/internal/validation"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown")
	}

	// Background work stops after in-flight requests have drained.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("Server exiting")
}

func Run(cfg *config.Config, version string) {
	logger.NewLogger(cfg.Log)
	if cfg.Global.ShutdownTimeoutInSeconds <= 0 {
		cfg.Global.ShutdownTimeoutInSeconds = 5
	}
	if cfg.Auth.SecureCookies {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info().Str("version", version).Str("driver", string(cfg.Database.Driver)).Msg("Starting foundation site")

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	auditService := audit.NewService(dbaudit.NewRepository(db.DB), audit.NewArchiver(cfg.Audit.ArchiveDir))
	donationStore := donations.NewRepository(db.DB)

	store, err := storage.NewLocal(cfg.Upload.Dir, cfg.Upload.PublicPath)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Upload.Dir).Msg("Failed to initialize upload storage")
	}
	thumbnailer := media.NewThumbnailer(store, cfg.Upload.ThumbWidth)
	imageRepo := content.NewRepository[entities.Image](db.DB, content.Options{})

	// Task queue
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromConfig(cfg.Tasks))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing task client")
			}
		}()

		taskClient.Register(
			tasks.NewGenerateThumbnailQueue(thumbnailer, tasks.ImageThumbnails(imageRepo)),
			tasks.NewExpireStaleDonationsQueue(donationStore),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Scheduler
	var sched *scheduler.Scheduler
	if cfg.Schedule.Enabled {
		var queue scheduler.Enqueuer
		if taskClient != nil {
			queue = taskClient
		}
		sched = scheduler.New(queue)
		for _, job := range scheduler.Maintenance(cfg.Schedule, cfg.Audit, donationStore, auditService) {
			if err := sched.Add(job); err != nil {
				log.Fatal().Err(err).Msg("Failed to schedule maintenance job")
			}
		}
		sched.Start(context.Background())
	}

	// Authentication
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get SQL DB for sessions")
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Database.Driver, cfg.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session manager")
	}
	authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
	provider := auth.NewProviderVerifier(cfg.Provider)
	if provider == nil {
		log.Warn().Msg("AUTH_PROVIDER_JWT_SECRET is not set; bearer tokens are rejected and only CMS sessions work")
	}

	csrfSecret, generated, err := csrfSecretFrom(cfg.Auth.SessionSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate CSRF secret")
	}
	if generated {
		log.Warn().Msg("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	if hasUsers, err := authService.HasUsers(context.Background()); err == nil && !hasUsers {
		log.Info().Msg("No CMS users found. POST /api/auth/setup or run 'create-admin' to create an administrator.")
	}

	gateway := payments.NewGateway(cfg.Payment)
	if gateway == nil {
		log.Warn().Msg("PAYMENT_SECRET_KEY is not set; card donations are recorded without a checkout")
	}

	router, stopRouter := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:           db,
		Validator:          validation.New(),
		Audit:              auditService,
		Storage:            store,
		UploadDir:          store.Root(),
		UploadPublicPath:   cfg.Upload.PublicPath,
		MaxUploadBytes:     cfg.Upload.MaxBytes,
		Thumbnailer:        thumbnailer,
		TaskClient:         taskClient,
		Scheduler:          sched,
		StaleDonationAge:   cfg.Schedule.StaleDonationMaxAge,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		Payments:           gateway,
		Currency:           cfg.Payment.Currency,
		SiteURL:            cfg.Site.URL,
		AuthService:        authService,
		SessionManager:     sessionManager,
		Provider:           provider,
		AuthConfig:         cfg.Auth,
		CSRFSecret:         csrfSecret,
		SecureCookies:      cfg.Auth.SecureCookies,
		Version:            version,
	})

	onShutdown := func(ctx context.Context) {
		stopRouter()
		if sched != nil {
			sched.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}

// csrfSecretFrom derives the CSRF key from the session secret: hex when it
// decodes, raw bytes otherwise. An empty secret yields a random key, reported
// through generated.
func csrfSecretFrom(sessionSecret string) (secret []byte, generated bool, err error) {
	if sessionSecret != "" {
		if b, err := hex.DecodeString(sessionSecret); err == nil {
			return b, false, nil
		}
		return []byte(sessionSecret), false, nil
	}

	s, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, false, err
	}
	b, _ := hex.DecodeString(s)
	return b, true, nil
}
