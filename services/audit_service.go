package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/repositories"
)

// AuditMode selects whether callers wait for audit entries to be stored
type AuditMode string

const (
	AuditModeAsync AuditMode = "async"
	AuditModeSync  AuditMode = "sync"
)

// ParseAuditMode maps configuration text to a mode, defaulting to async
func ParseAuditMode(s string) AuditMode {
	if AuditMode(s) == AuditModeSync {
		return AuditModeSync
	}
	return AuditModeAsync
}

// Diff produces one entry per effective field whose value actually changes.
// Empty and absent compare equal. Modification metadata is not diffed.
func Diff(current models.Record, effective models.EffectiveUpdate, actor models.Actor, now time.Time) []models.AuditEntry {
	var entries []models.AuditEntry

	for _, field := range effective.Fields() {
		oldValue := models.NormalizeValue(current.Get(field))
		newValue := models.NormalizeValue(effective.Values[field])
		if models.ValueOrEmpty(oldValue) == models.ValueOrEmpty(newValue) {
			continue
		}

		entries = append(entries, models.AuditEntry{
			RecordID:  current.ID(),
			FieldName: field,
			OldValue:  oldValue,
			NewValue:  newValue,
			UpdatedBy: actor.Username,
			UpdatedAt: now,
		})
	}

	return entries
}

// AuditTask is a handle on one batch of audit appends
type AuditTask struct {
	done chan struct{}
	err  error
}

func newAuditTask() *AuditTask {
	return &AuditTask{done: make(chan struct{})}
}

// Wait blocks until the batch has been stored and returns the first failure
func (t *AuditTask) Wait() error {
	<-t.done
	return t.err
}

// AuditLogger appends audit entries. A failed append is logged and never
// fails the record write it describes.
type AuditLogger struct {
	repo    repositories.AuditRepository
	mode    AuditMode
	timeout time.Duration
	logger  *slog.Logger

	wg sync.WaitGroup
}

// NewAuditLogger creates an audit logger writing to repo
func NewAuditLogger(repo repositories.AuditRepository, mode AuditMode, timeout time.Duration, logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &AuditLogger{repo: repo, mode: mode, timeout: timeout, logger: logger}
}

// Record stores entries. In async mode it returns at once; in sync mode it
// returns after the entries were stored or failed.
func (a *AuditLogger) Record(ctx context.Context, entries []models.AuditEntry) *AuditTask {
	task := newAuditTask()
	if len(entries) == 0 {
		close(task.done)
		return task
	}

	// appends outlive the request
	ctx = context.WithoutCancel(ctx)

	a.wg.Add(1)
	run := func() {
		defer a.wg.Done()
		defer close(task.done)

		appendCtx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		for i := range entries {
			entry := entries[i]
			if err := a.repo.Append(appendCtx, &entry); err != nil {
				a.logger.Error("failed to append audit entry",
					"record_id", entry.RecordID,
					"field", entry.FieldName,
					"error", err,
				)
				if task.err == nil {
					task.err = err
				}
			}
		}
	}

	if a.mode == AuditModeSync {
		run()
	} else {
		go run()
	}

	return task
}

// History returns a record's entries in write order
func (a *AuditLogger) History(ctx context.Context, recordID string) ([]models.AuditEntry, error) {
	return a.repo.ListByRecord(ctx, recordID)
}

// All returns every entry, newest first
func (a *AuditLogger) All(ctx context.Context) ([]models.AuditEntry, error) {
	return a.repo.ListAll(ctx)
}

// Drain waits for in-flight appends, used on shutdown
func (a *AuditLogger) Drain() {
	a.wg.Wait()
}
