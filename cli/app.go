package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2/google"

	"github.com/blogem/caseledger/authenticator"
	"github.com/blogem/caseledger/cache"
	"github.com/blogem/caseledger/config"
	"github.com/blogem/caseledger/database"
	"github.com/blogem/caseledger/gworkspace"
	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/objectstore"
	"github.com/blogem/caseledger/repositories"
	"github.com/blogem/caseledger/services"
)

// App is the wired service graph shared by every command
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Schema   *models.Schema
	Services *services.Services

	closers []func() error
}

// NewApp opens the database and the configured backends
func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger, Schema: models.DefaultSchema()}

	// Initialize database
	if err := database.InitializeDatabase(cfg.DatabasePath); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.closers = append(app.closers, database.CloseDB)

	store, creds, err := app.openTabularStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	attachments, err := app.openAttachmentStore(ctx, creds)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Initialize repositories
	repos := repositories.NewRepositories(database.GetDB(), store, attachments, app.Schema, repositories.Options{
		Sheet:        cfg.SheetName,
		UpdatesSheet: cfg.UpdatesSheetName,
		AuditStore:   cfg.AuditStore,
	})

	backend, err := app.openCacheBackend()
	if err != nil {
		app.Close()
		return nil, err
	}

	recordCache := cache.New(services.StoreLoader(repos.Records, cfg.StoreTimeout), cache.Options{
		Duration: cfg.CacheDuration,
		Backend:  backend,
		Logger:   logger.With("component", "cache"),
	})

	// Initialize services
	app.Services = services.NewServices(repos, recordCache, app.Schema, services.Options{
		StoreTimeout: cfg.StoreTimeout,
		AuditMode:    services.ParseAuditMode(cfg.AuditMode),
		Logger:       logger,
	})

	return app, nil
}

// SeedUsers creates the default accounts on an empty user table
func (a *App) SeedUsers(ctx context.Context) error {
	return a.Services.Auth.SeedUsers(ctx, []services.SeedUser{
		{Username: "admin", Password: a.Config.SeedAdminPassword, Role: models.RoleAdmin},
		{Username: "user", Password: a.Config.SeedUserPassword, Role: models.RoleUser},
	})
}

// OIDCProvider returns the single sign-on provider, or nil when not configured
func (a *App) OIDCProvider(ctx context.Context) (authenticator.Provider, error) {
	if a.Config.OIDCIssuerURL == "" {
		return nil, nil
	}
	return authenticator.NewOpenIDProvider(ctx, authenticator.OpenIDConfig{
		IssuerURL:    a.Config.OIDCIssuerURL,
		ClientID:     a.Config.OIDCClientID,
		ClientSecret: a.Config.OIDCClientSecret,
		CallbackURL:  a.Config.OIDCCallbackURL,
	})
}

// Close waits for pending audit appends and releases backends
func (a *App) Close() error {
	if a.Services != nil {
		a.Services.Audit.Drain()
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openTabularStore(ctx context.Context) (repositories.TabularStore, *google.Credentials, error) {
	if a.Config.DemoMode() {
		a.Logger.Warn("SPREADSHEET_ID not set, serving built-in demo cases from memory")
		store := repositories.NewMemoryTabularStore()
		repositories.SeedDemoSheet(store, a.Config.SheetName, a.Schema)
		store.SetRows(a.Config.UpdatesSheetName, [][]string{repositories.SheetAuditHeader})
		return store, nil, nil
	}

	creds, err := gworkspace.LoadCredentials(ctx, a.Config.GoogleCredentials, a.Config.GoogleCredentialsFile)
	if err != nil {
		return nil, nil, err
	}

	store, err := gworkspace.NewSheetsStore(ctx, creds, a.Config.SpreadsheetID)
	if err != nil {
		return nil, nil, err
	}
	return store, creds, nil
}

func (a *App) openAttachmentStore(ctx context.Context, creds *google.Credentials) (repositories.AttachmentStore, error) {
	switch strings.ToLower(a.Config.AttachmentBackend) {
	case "drive":
		if creds == nil {
			return nil, errors.New("drive attachments need google credentials and a spreadsheet")
		}
		store, err := gworkspace.NewDriveStore(ctx, creds, a.Config.DriveRootFolderID)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "minio":
		store, err := objectstore.New(ctx, objectstore.Config{
			Endpoint:  a.Config.MinioEndpoint,
			AccessKey: a.Config.MinioAccessKey,
			SecretKey: a.Config.MinioSecretKey,
			Bucket:    a.Config.MinioBucket,
			UseSSL:    a.Config.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown ATTACHMENT_BACKEND %q", a.Config.AttachmentBackend)
	}
}

func (a *App) openCacheBackend() (cache.Backend, error) {
	switch strings.ToLower(a.Config.CacheBackend) {
	case "redis":
		backend, err := cache.NewRedisBackend(a.Config.RedisURL, a.Config.CacheDuration)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, backend.Close)
		return backend, nil
	case "", "memory":
		return cache.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q", a.Config.CacheBackend)
	}
}
