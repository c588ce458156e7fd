package services

import (
	"log/slog"
	"time"

	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/repositories"
)

// Options tunes the service layer
type Options struct {
	StoreTimeout time.Duration
	AuditMode    AuditMode
	Logger       *slog.Logger
}

// Services holds all service instances
type Services struct {
	Records     RecordService
	Auth        AuthService
	Attachments AttachmentService
	Export      ExportService
	Audit       *AuditLogger
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, cache RecordCache, schema *models.Schema, opts Options) *Services {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	audit := NewAuditLogger(repos.Audit, opts.AuditMode, opts.StoreTimeout, logger.With("component", "audit"))
	records := NewRecordService(repos.Records, cache, audit, schema, opts.StoreTimeout, logger.With("component", "records"))

	return &Services{
		Records:     records,
		Auth:        NewAuthService(repos.Users, logger.With("component", "auth")),
		Attachments: NewAttachmentService(repos.Attachments, records, logger.With("component", "attachments")),
		Export:      NewExportService(records),
		Audit:       audit,
	}
}
