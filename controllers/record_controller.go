package controllers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/services"
)

const maxPatchBody = 1 << 20

// RecordController handles case record requests
type RecordController struct {
	records services.RecordService
	logger  *slog.Logger
}

// NewRecordController creates a new record controller
func NewRecordController(records services.RecordService, logger *slog.Logger) *RecordController {
	return &RecordController{records: records, logger: logger}
}

// Index handles GET /api/records
func (c *RecordController) Index(w http.ResponseWriter, r *http.Request) {
	set, err := c.records.List(r.Context())
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}

	schema := c.records.Schema()
	out := make([]map[string]interface{}, 0, len(set.Records))
	for _, rec := range set.Records {
		out = append(out, models.RecordJSON(schema, rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// Headers handles GET /api/records/headers
func (c *RecordController) Headers(w http.ResponseWriter, r *http.Request) {
	set, err := c.records.List(r.Context())
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"headers":        set.Headers,
		"editableFields": c.records.Schema().EditableFields(),
	})
}

// Show handles GET /api/records/{id}
func (c *RecordController) Show(w http.ResponseWriter, r *http.Request) {
	rec, err := c.records.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, models.RecordJSON(c.records.Schema(), rec))
}

// Update handles PATCH /api/records/{id}
func (c *RecordController) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPatchBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	req, err := models.DecodeUpdateRequest(body)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}

	result, err := c.records.Update(r.Context(), chi.URLParam(r, "id"), req, actor)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, models.RecordJSON(c.records.Schema(), result.Record))
}

// History handles GET /api/records/{id}/history
func (c *RecordController) History(w http.ResponseWriter, r *http.Request) {
	entries, err := c.records.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
