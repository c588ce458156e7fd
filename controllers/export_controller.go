package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/blogem/caseledger/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportController serves spreadsheet downloads
type ExportController struct {
	export services.ExportService
	logger *slog.Logger
}

// NewExportController creates a new export controller
func NewExportController(export services.ExportService, logger *slog.Logger) *ExportController {
	return &ExportController{export: export, logger: logger}
}

// Download handles GET /api/records/export. An optional comma separated
// serials query limits the rows.
func (c *ExportController) Download(w http.ResponseWriter, r *http.Request) {
	serials, err := parseSerials(r.URL.Query().Get("serials"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	export, err := c.export.Export(r.Context(), serials)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}

func parseSerials(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var serials []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		serial, err := strconv.Atoi(part)
		if err != nil || serial <= 0 {
			return nil, fmt.Errorf("invalid serial %q", part)
		}
		serials = append(serials, serial)
	}
	return serials, nil
}
