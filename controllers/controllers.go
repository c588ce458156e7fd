package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/blogem/caseledger/authenticator"
	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/services"
	"github.com/blogem/caseledger/userctx"
)

// writeJSON encodes data with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps a service error onto an HTTP status
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validation models.ValidationErrors
	var persistence *models.PersistenceError

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Invalid request",
			"details": validation,
		})
	case errors.Is(err, models.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, models.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrStaleRow):
		writeError(w, http.StatusConflict, "Record moved or was removed from the sheet, reload and retry")
	case errors.Is(err, services.ErrAttachmentsDisabled):
		writeError(w, http.StatusServiceUnavailable, "Attachments are not configured")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("upstream timeout", "error", err)
		writeError(w, http.StatusGatewayTimeout, "Sheet did not respond in time")
	case errors.As(err, &persistence):
		logger.Error("persistence failure", "op", persistence.Op, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to save to the sheet")
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// actorFrom returns the authenticated caller, writing a 401 when absent
func actorFrom(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := userctx.GetActor(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
	}
	return actor, ok
}

// Controllers holds all controller instances
type Controllers struct {
	Auth        *AuthController
	Records     *RecordController
	Audit       *AuditController
	Attachments *AttachmentController
	Export      *ExportController
}

// NewControllers creates and initializes all controller instances. provider
// may be nil when OIDC login is not configured.
func NewControllers(services *services.Services, provider authenticator.Provider, logger *slog.Logger) *Controllers {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	return &Controllers{
		Auth:        NewAuthController(services.Auth, provider, logger),
		Records:     NewRecordController(services.Records, logger),
		Audit:       NewAuditController(services.Records, logger),
		Attachments: NewAttachmentController(services.Attachments, logger),
		Export:      NewExportController(services.Export, logger),
	}
}
