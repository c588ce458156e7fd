package gworkspace

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/blogem/caseledger/models"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveStore is an AttachmentStore keeping case folders in Google Drive
type DriveStore struct {
	svc          *drive.Service
	rootFolderID string
}

// NewDriveStore creates a store. Case folders are created under
// rootFolderID when it is set.
func NewDriveStore(ctx context.Context, creds *google.Credentials, rootFolderID string) (*DriveStore, error) {
	svc, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return NewDriveStoreWithService(svc, rootFolderID), nil
}

// NewDriveStoreWithService creates a store from an existing client
func NewDriveStoreWithService(svc *drive.Service, rootFolderID string) *DriveStore {
	return &DriveStore{svc: svc, rootFolderID: rootFolderID}
}

// CreateFolder creates a folder and returns its id and browser link
func (d *DriveStore) CreateFolder(ctx context.Context, name string) (*models.Folder, error) {
	folder := &drive.File{
		Name:     name,
		MimeType: folderMimeType,
	}
	if d.rootFolderID != "" {
		folder.Parents = []string{d.rootFolderID}
	}

	created, err := d.svc.Files.Create(folder).
		Fields("id, webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive create folder: %w", err)
	}

	return &models.Folder{ID: created.Id, Link: created.WebViewLink}, nil
}

// UploadFile stores body in folderID
func (d *DriveStore) UploadFile(ctx context.Context, folderID, name, mimeType string, body io.Reader, size int64) (*models.Attachment, error) {
	file := &drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{folderID},
	}

	created, err := d.svc.Files.Create(file).
		Media(body, googleapi.ContentType(mimeType)).
		Fields("id, name, webViewLink, mimeType, createdTime").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive upload: %w", err)
	}

	attachment := toAttachment(created)
	return &attachment, nil
}

// ListFiles lists the files in folderID, newest first
func (d *DriveStore) ListFiles(ctx context.Context, folderID string) ([]models.Attachment, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(folderID))

	files := []models.Attachment{}
	err := d.svc.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, name, webViewLink, mimeType, createdTime)").
		OrderBy("createdTime desc").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				files = append(files, toAttachment(f))
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("drive list: %w", err)
	}

	return files, nil
}

// DeleteFile permanently deletes a file
func (d *DriveStore) DeleteFile(ctx context.Context, fileID string) error {
	if err := d.svc.Files.Delete(fileID).SupportsAllDrives(true).Context(ctx).Do(); err != nil {
		return fmt.Errorf("drive delete: %w", err)
	}
	return nil
}

func toAttachment(f *drive.File) models.Attachment {
	a := models.Attachment{
		ID:       f.Id,
		Name:     f.Name,
		Link:     f.WebViewLink,
		MimeType: f.MimeType,
	}
	if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
		a.CreatedAt = t
	}
	return a
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
