package repositories

import (
	"context"
	"io"

	"github.com/blogem/caseledger/models"
)

// AttachmentStore keeps per-case document folders. It does not check MIME
// types; callers enforce the allowlist.
type AttachmentStore interface {
	CreateFolder(ctx context.Context, name string) (*models.Folder, error)
	UploadFile(ctx context.Context, folderID, name, mimeType string, body io.Reader, size int64) (*models.Attachment, error)
	ListFiles(ctx context.Context, folderID string) ([]models.Attachment, error)
	DeleteFile(ctx context.Context, fileID string) error
}
