package models

import (
	"fmt"
	"time"
)

// MaxUploadSize bounds a single attachment upload
const MaxUploadSize = 20 << 20

// AllowedAttachmentTypes is the MIME allowlist enforced at the HTTP layer
var AllowedAttachmentTypes = map[string]bool{
	"application/pdf": true,
}

// Folder is a per-case document folder
type Folder struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

// Attachment is a file stored in a case folder
type Attachment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	MimeType  string    `json:"mimeType,omitempty"`
	CreatedAt time.Time `json:"createdTime,omitempty"`
}

// FolderName is the display name of a record's document folder
func FolderName(r Record) string {
	if id := r.Get(FieldNationalID); id != "" {
		return "رقم قومي - " + id
	}
	return fmt.Sprintf("مسلسل - %d", r.Serial)
}
