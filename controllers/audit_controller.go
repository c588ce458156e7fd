package controllers

import (
	"log/slog"
	"net/http"

	"github.com/blogem/caseledger/services"
)

// AuditController serves the global update log
type AuditController struct {
	records services.RecordService
	logger  *slog.Logger
}

// NewAuditController creates a new audit controller
func NewAuditController(records services.RecordService, logger *slog.Logger) *AuditController {
	return &AuditController{records: records, logger: logger}
}

// Index handles GET /api/updates
func (c *AuditController) Index(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	entries, err := c.records.AllUpdates(r.Context(), actor)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
