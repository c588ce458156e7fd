package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blogem/caseledger/controllers"
)

const shutdownTimeout = 20 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(root *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := root.openApp(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			if port != "" {
				app.Config.Port = port
			}
			return serve(ctx, app)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, app *App) error {
	logger := app.Logger

	if err := app.SeedUsers(ctx); err != nil {
		return err
	}

	provider, err := app.OIDCProvider(ctx)
	if err != nil {
		return err
	}

	// Initialize controllers
	ctrl := controllers.NewControllers(app.Services, provider, logger)

	// Set up router
	r, err := NewRouter(ctrl, RouterOptions{
		UseHTTPS:        app.Config.UseHTTPS,
		SessionLifetime: app.Config.SessionLifetime,
		Logger:          logger.With("component", "access"),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("caseledger starting",
			"port", app.Config.Port,
			"database", app.Config.DatabasePath,
			"demo", app.Config.DemoMode(),
			"cache", app.Config.CacheBackend,
			"audit_store", app.Config.AuditStore,
			"attachments", app.Config.AttachmentBackend,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
