package repositories

import (
	"database/sql"

	"github.com/blogem/caseledger/models"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Records     RecordRepository
	Audit       AuditRepository
	Users       UserRepository
	Attachments AttachmentStore
}

// Options selects the sheets and the audit backend
type Options struct {
	Sheet        string
	UpdatesSheet string
	AuditStore   string // "sqlite" or "sheet"
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB, store TabularStore, attachments AttachmentStore, schema *models.Schema, opts Options) *Repositories {
	var audit AuditRepository
	if opts.AuditStore == "sheet" {
		audit = NewSheetAuditRepository(store, opts.UpdatesSheet)
	} else {
		audit = NewAuditRepository(db)
	}

	return &Repositories{
		Records:     NewRecordRepository(store, opts.Sheet, schema),
		Audit:       audit,
		Users:       NewUserRepository(db),
		Attachments: attachments,
	}
}
