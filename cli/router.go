package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blogem/caseledger/controllers"
	authmiddleware "github.com/blogem/caseledger/middleware"
)

// RouterOptions configures sessions
type RouterOptions struct {
	UseHTTPS        bool
	SessionLifetime int
	Logger          *slog.Logger
}

// NewRouter configures all routes
func NewRouter(ctrl *controllers.Controllers, opts RouterOptions) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // 60 second timeout for OAuth callbacks and sheet round trips

	lifetime := opts.SessionLifetime
	if lifetime <= 0 {
		lifetime = 86400
	}

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "caseledger_session",
		Secure:         opts.UseHTTPS,
		Gclifetime:     int64(lifetime),
		Maxlifetime:    int64(lifetime),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "caseledger"}`)
	})

	r.Route("/api", func(r chi.Router) {
		// PUBLIC ROUTES (no authentication required)
		r.Post("/auth/login", ctrl.Auth.Login)
		r.Post("/auth/logout", ctrl.Auth.Logout)
		r.Get("/auth/oidc/login", ctrl.Auth.OIDCLogin)
		r.Get("/auth/oidc/callback", ctrl.Auth.OIDCCallback)

		// PROTECTED ROUTES (authentication required)
		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAuth)
			if opts.Logger != nil {
				r.Use(authmiddleware.RequestLogger(opts.Logger))
			}

			r.Get("/auth/me", ctrl.Auth.Me)

			r.Route("/records", func(r chi.Router) {
				r.Get("/", ctrl.Records.Index)
				r.Get("/headers", ctrl.Records.Headers)
				r.Get("/export", ctrl.Export.Download)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", ctrl.Records.Show)
					r.Patch("/", ctrl.Records.Update)
					r.Get("/history", ctrl.Records.History)

					// Case documents
					r.Post("/folder", ctrl.Attachments.EnsureFolder)
					r.Get("/files", ctrl.Attachments.Index)
					r.Post("/files", ctrl.Attachments.Upload)
					r.Delete("/files/{fileId}", ctrl.Attachments.Delete)
				})
			})

			r.With(authmiddleware.RequireAdmin).Get("/updates", ctrl.Audit.Index)
		})
	})

	return r, nil
}
