package controllers

import (
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/services"
)

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

// AttachmentController handles per-case document requests
type AttachmentController struct {
	attachments services.AttachmentService
	logger      *slog.Logger
}

// NewAttachmentController creates a new attachment controller
func NewAttachmentController(attachments services.AttachmentService, logger *slog.Logger) *AttachmentController {
	return &AttachmentController{attachments: attachments, logger: logger}
}

// EnsureFolder handles POST /api/records/{id}/folder
func (c *AttachmentController) EnsureFolder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	folder, err := c.attachments.EnsureFolder(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// Index handles GET /api/records/{id}/files
func (c *AttachmentController) Index(w http.ResponseWriter, r *http.Request) {
	files, err := c.attachments.ListFiles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// Upload handles POST /api/records/{id}/files with a multipart "file" field
func (c *AttachmentController) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, models.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(models.MaxUploadSize + multipartOverhead); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > models.MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File exceeds the 20MB limit")
		return
	}

	mimeType, ok := allowedType(header.Header.Get("Content-Type"), file)
	if !ok {
		writeError(w, http.StatusUnsupportedMediaType, "Only PDF files are allowed")
		return
	}

	attachment, err := c.attachments.Upload(r.Context(), chi.URLParam(r, "id"), actor, header.Filename, mimeType, file, header.Size)
	if err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, attachment)
}

// Delete handles DELETE /api/records/{id}/files/{fileId}
func (c *AttachmentController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.attachments.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "fileId")); err != nil {
		writeServiceError(w, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// allowedType checks both the declared and the sniffed content type against
// the allowlist and rewinds the file
func allowedType(declared string, file io.ReadSeeker) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil || !models.AllowedAttachmentTypes[mediaType] {
		return "", false
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", false
	}
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(head[:n]))
	if sniffed != mediaType {
		return "", false
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", false
	}
	return mediaType, true
}
