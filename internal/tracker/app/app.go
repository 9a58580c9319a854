package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/castrack/internal/tracker/evidence"
	httpapi "github.com/aussiebroadwan/castrack/internal/tracker/http"
	"github.com/aussiebroadwan/castrack/internal/tracker/notify"
	"github.com/aussiebroadwan/castrack/internal/tracker/notify/sendgrid"
	"github.com/aussiebroadwan/castrack/internal/tracker/notify/ses"
	"github.com/aussiebroadwan/castrack/internal/tracker/service"
	"github.com/aussiebroadwan/castrack/internal/tracker/store"
	"github.com/aussiebroadwan/castrack/internal/tracker/store/drivers/sqlite"
	"github.com/aussiebroadwan/castrack/pkg/cryptox"
	"github.com/aussiebroadwan/castrack/pkg/jwtx"
	"github.com/aussiebroadwan/castrack/pkg/slogx"
)

// BuildVersion is overridden at build time with -ldflags "-X ...".
var BuildVersion = "v0.1.0"

// Application wires the tracker service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	storage  evidence.Storage
	sender   notify.Sender
	signer   jwtx.Signer
	verifier jwtx.Verifier

	accountService      *service.AccountService
	recoveryService     *service.RecoveryService
	sectionService      *service.SectionService
	submissionService   *service.SubmissionService
	bootstrapService    *service.BootstrapService
	notificationWorker  *service.NotificationWorker
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New builds the application. Nothing is served until Run.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "castrack",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	ctx := context.Background()

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, verifier, err := InitCredentialKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize credential keys: %w", err)
	}
	app.signer, app.verifier = signer, verifier

	if err := app.initStorage(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initSender(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()

	if err := app.bootstrapAdmin(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Run starts the workers and the server and blocks until shutdown.
func (app *Application) Run() error {
	app.notificationWorker.Start()
	app.housekeepingService.Start()

	app.logger.Info("castrack starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.stopWorkers()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains requests, stops the workers, then closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down castrack...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.stopWorkers()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("castrack stopped")
	return nil
}

func (app *Application) stopWorkers() {
	app.notificationWorker.Stop()
	app.housekeepingService.Stop()
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

func (app *Application) initStorage(ctx context.Context) error {
	switch app.cfg.EvidenceDriver {
	case "b2":
		b2, err := evidence.NewB2(ctx, app.cfg.B2AccountID, app.cfg.B2ApplicationKey, app.cfg.B2Bucket)
		if err != nil {
			return fmt.Errorf("failed to open evidence bucket: %w", err)
		}
		app.storage = b2
		app.logger.Info("evidence storage ready", "driver", "b2", "bucket", app.cfg.B2Bucket)
	default:
		disk, err := evidence.NewDisk(app.cfg.EvidenceDir)
		if err != nil {
			return fmt.Errorf("failed to open evidence directory: %w", err)
		}
		app.storage = disk
		app.logger.Info("evidence storage ready", "driver", "disk", "dir", app.cfg.EvidenceDir)
	}
	return nil
}

func (app *Application) initSender(ctx context.Context) error {
	switch app.cfg.NotifyDriver {
	case "ses":
		s, err := ses.New(ctx, app.cfg.AWSRegion, app.cfg.NotifyFrom)
		if err != nil {
			return fmt.Errorf("failed to initialize ses sender: %w", err)
		}
		app.sender = s
	case "sendgrid":
		app.sender = sendgrid.New(app.cfg.SendGridAPIKey, "", app.cfg.NotifyFromName, app.cfg.NotifyFrom)
	default:
		app.sender = notify.NewConsole(app.logger)
		if app.cfg.Env == "prod" {
			app.logger.Warn("console notification driver in prod; emails are only logged")
		}
	}
	app.logger.Info("notification driver ready", "driver", app.cfg.NotifyDriver)
	return nil
}

func (app *Application) initServices() {
	outbox := &service.OutboxService{}

	app.accountService = &service.AccountService{
		Store:         app.db,
		Outbox:        outbox,
		Signer:        app.signer,
		Issuer:        app.cfg.JWTIssuer,
		CredentialTTL: app.cfg.CredentialTTL,
		EmailDomain:   app.cfg.EmailDomain,
	}
	app.recoveryService = &service.RecoveryService{
		Store:         app.db,
		Outbox:        outbox,
		AdminEmail:    app.cfg.AdminEmail,
		RecoveryEmail: app.cfg.AdminRecoveryEmail,
	}
	app.sectionService = &service.SectionService{Store: app.db}
	app.submissionService = &service.SubmissionService{
		Store:   app.db,
		Storage: app.storage,
		Outbox:  outbox,
	}
	app.bootstrapService = &service.BootstrapService{Store: app.db}

	app.notificationWorker = service.NewNotificationWorker(
		app.db,
		app.sender,
		app.logger,
		app.cfg.OutboxInterval,
		app.cfg.OutboxMaxAttempts,
	)
	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) bootstrapAdmin(ctx context.Context) error {
	ctx = slogx.WithContext(ctx, app.logger)
	acc, err := app.bootstrapService.EnsureAdmin(ctx, app.cfg.AdminEmail, app.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	app.logger.Info("admin account ready", "account_id", acc.ID, "email", acc.Email)
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		app.signer,
		BuildVersion,
		app.db,
		app.storage,
		app.logger,
	)

	router.AccountService = app.accountService
	router.RecoveryService = app.recoveryService
	router.SectionService = app.sectionService
	router.SubmissionService = app.submissionService
	router.MaxUploadBytes = app.cfg.MaxUploadBytes
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
