package entrypoint

import (
	"context"
	"database/sql"
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

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/people"
	"github.com/mrlokans/library/internal/demo"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/logger"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/tasks"
	"github.com/mrlokans/library/internal/validation"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM.
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown")
	}

	// Background work stops after the last request has been answered.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("Server exiting")
}

// Run wires every component from cfg and serves until shutdown.
func Run(cfg *config.Config, version string) {
	logger.Init(cfg.Logging.Env, cfg.Logging.Level)
	log.Info().Str("version", version).Msg("Starting library service")
	if cfg.Logging.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	peopleRepo := people.NewRepository(db.DB)
	booksService := services.NewBooksService(bookRepo, peopleRepo, validation.NewBookValidator(nil))
	peopleService := services.NewPeopleService(peopleRepo, validation.NewPersonValidator(peopleRepo, nil))
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	taskCtx, taskCtxCancel := context.WithCancel(context.Background())
	defer taskCtxCancel()

	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(tasks.DatabasePath(cfg.Database.Path), tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing task client")
			}
		}()

		taskClient.Register(
			tasks.NewOverdueScanQueue(booksService, auditService),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)
		go taskClient.Start(taskCtx)

		if _, err := taskClient.Add(tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}).Save(); err != nil {
			log.Warn().Err(err).Msg("Failed to enqueue audit cleanup")
		}
	}

	dispatcher := tasks.NewOverdueScanDispatcher(taskClient, booksService, auditService)

	var scanScheduler *scheduler.OverdueScanScheduler
	if cfg.OverdueScan.Enabled {
		scanScheduler = scheduler.NewOverdueScanScheduler(dispatcher, cfg.OverdueScan.Schedule)
		if err := scanScheduler.Start(taskCtx); err != nil {
			log.Error().Err(err).Msg("Overdue scan scheduler disabled")
			scanScheduler = nil
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Books:              booksService,
		People:             peopleService,
		Database:           db,
		Auditor:            auditService,
		AuthConfig:         cfg.Auth,
		TaskClient:         taskClient,
		OverdueScanner:     dispatcher,
		AuditRetentionDays: cfg.Audit.RetentionDays,
		Demo:               demo.NewMiddleware(cfg.Demo.Enabled),
		Version:            version,
	}
	if cfg.Demo.Enabled {
		log.Info().Msg("Demo mode enabled: write operations are blocked")
	}

	var sessionsDB *sql.DB
	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Info().Msg("Authentication mode: local")

		sessionsDB, err = openSessionsDB(db, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open session store")
		}

		authService := auth.NewService(db.DB, cfg.Auth)
		sessionManager, err := auth.NewSessionManager(sessionsDB, cfg.Auth)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize session manager")
		}

		csrfSecret, err := csrfSecretFrom(cfg.Auth.SessionSecret)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to generate CSRF secret")
		}

		routerCfg.AuthService = authService
		routerCfg.SessionManager = sessionManager
		routerCfg.AuthMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)
		routerCfg.CSRFSecret = csrfSecret

		if hasLibrarians, _ := authService.HasLibrarians(); !hasLibrarians {
			log.Warn().Msg("No librarians found. POST /api/auth/setup or run create-librarian to add one.")
		}
	} else {
		log.Info().Msg("Authentication mode: none (no authentication required)")
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if scanScheduler != nil {
			scanScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		taskCtxCancel()
		auditService.Wait()
		if sessionsDB != nil && cfg.Database.Driver == config.DriverPostgres {
			sessionsDB.Close()
		}
	}

	Serve(router, cfg, onShutdown)
}

// openSessionsDB shares the catalogue connection on SQLite. Postgres
// deployments keep sessions in a sibling SQLite file.
func openSessionsDB(db *database.Database, cfg config.Database) (*sql.DB, error) {
	if cfg.Driver == config.DriverPostgres {
		return auth.OpenSessionStore(auth.SessionsDatabasePath(cfg.Path))
	}
	return db.DB.DB()
}

// csrfSecretFrom decodes a hex secret, falls back to the raw bytes, and
// generates a per-process secret when none is configured.
func csrfSecretFrom(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}

	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, err
	}
	log.Warn().Msg("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(secret)
}
