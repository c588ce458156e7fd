package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/repositories"
)

// ErrAttachmentsDisabled is returned when no attachment backend is configured
var ErrAttachmentsDisabled = errors.New("attachments are not configured")

// AttachmentService interface defines per-case document folder logic
type AttachmentService interface {
	EnsureFolder(ctx context.Context, id string, actor models.Actor) (*models.Folder, error)
	ListFiles(ctx context.Context, id string) ([]models.Attachment, error)
	Upload(ctx context.Context, id string, actor models.Actor, name, mimeType string, body io.Reader, size int64) (*models.Attachment, error)
	Delete(ctx context.Context, id, fileID string) error
}

// attachmentService implements AttachmentService interface
type attachmentService struct {
	store   repositories.AttachmentStore
	records RecordService
	logger  *slog.Logger

	// serializes folder creation so one record never gets two folders
	mu sync.Mutex
}

// NewAttachmentService creates a new attachment service. store may be nil.
func NewAttachmentService(store repositories.AttachmentStore, records RecordService, logger *slog.Logger) AttachmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &attachmentService{store: store, records: records, logger: logger}
}

// EnsureFolder returns the record's folder, creating it and saving its id
// and link onto the record the first time
func (s *attachmentService) EnsureFolder(ctx context.Context, id string, actor models.Actor) (*models.Folder, error) {
	if s.store == nil {
		return nil, ErrAttachmentsDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder := folderOf(record); folder != nil {
		return folder, nil
	}

	folder, err := s.store.CreateFolder(ctx, models.FolderName(record))
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	_, err = s.records.SetSystemFields(ctx, id, map[string]string{
		models.FieldDriveFolderID:   folder.ID,
		models.FieldDriveFolderLink: folder.Link,
	}, actor)
	if err != nil {
		s.logger.Error("folder created but not saved on record",
			"record_id", id,
			"folder_id", folder.ID,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("created case folder", "record_id", id, "folder_id", folder.ID)
	return folder, nil
}

// ListFiles lists a record's documents, newest first. A record without a
// folder has no documents.
func (s *attachmentService) ListFiles(ctx context.Context, id string) ([]models.Attachment, error) {
	if s.store == nil {
		return nil, ErrAttachmentsDisabled
	}

	record, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	folder := folderOf(record)
	if folder == nil {
		return []models.Attachment{}, nil
	}

	files, err := s.store.ListFiles(ctx, folder.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// Upload stores a document in the record's folder, creating the folder
// when needed
func (s *attachmentService) Upload(ctx context.Context, id string, actor models.Actor, name, mimeType string, body io.Reader, size int64) (*models.Attachment, error) {
	folder, err := s.EnsureFolder(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	file, err := s.store.UploadFile(ctx, folder.ID, name, mimeType, body, size)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	s.logger.Info("uploaded file", "record_id", id, "file_id", file.ID, "user", actor.Username)
	return file, nil
}

// Delete removes a document after checking it belongs to the record's folder
func (s *attachmentService) Delete(ctx context.Context, id, fileID string) error {
	files, err := s.ListFiles(ctx, id)
	if err != nil {
		return err
	}

	for _, f := range files {
		if f.ID == fileID {
			if err := s.store.DeleteFile(ctx, fileID); err != nil {
				return fmt.Errorf("failed to delete file: %w", err)
			}
			return nil
		}
	}

	return fmt.Errorf("%w: file %s", models.ErrNotFound, fileID)
}

func folderOf(record models.Record) *models.Folder {
	folderID := record.Get(models.FieldDriveFolderID)
	if folderID == "" {
		return nil
	}
	return &models.Folder{ID: folderID, Link: record.Get(models.FieldDriveFolderLink)}
}
