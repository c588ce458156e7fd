package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/repositories"
)

// DefaultStoreTimeout bounds every call to the sheet
const DefaultStoreTimeout = 15 * time.Second

var timeNow = func() time.Time {
	return time.Now()
}

// RecordCache is the listing cache the record service reads through
type RecordCache interface {
	Get(ctx context.Context) (*models.RecordSet, error)
	Patch(ctx context.Context, record models.Record) error
	Invalidate(ctx context.Context) error
	Refresh(ctx context.Context) (*models.RecordSet, error)
}

// StoreLoader adapts a record repository into a cache loader with a bounded
// timeout per listing
func StoreLoader(records repositories.RecordRepository, timeout time.Duration) func(ctx context.Context) (*models.RecordSet, error) {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return func(ctx context.Context) (*models.RecordSet, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return records.List(ctx)
	}
}

// RefreshTask is a handle on a scheduled authoritative refetch
type RefreshTask struct {
	done chan struct{}
	err  error
}

// Wait blocks until the refetch finished
func (t *RefreshTask) Wait() error {
	<-t.done
	return t.err
}

// UpdateResult is the outcome of a successful update
type UpdateResult struct {
	Record  models.Record
	Audit   *AuditTask
	Refresh *RefreshTask
}

// RecordService interface defines record business logic
type RecordService interface {
	Schema() *models.Schema
	List(ctx context.Context) (*models.RecordSet, error)
	Get(ctx context.Context, id string) (models.Record, error)
	Update(ctx context.Context, id string, req models.UpdateRequest, actor models.Actor) (*UpdateResult, error)
	SetSystemFields(ctx context.Context, id string, values map[string]string, actor models.Actor) (*UpdateResult, error)
	History(ctx context.Context, id string) ([]models.AuditEntry, error)
	AllUpdates(ctx context.Context, actor models.Actor) ([]models.AuditEntry, error)
}

// recordService implements RecordService interface
type recordService struct {
	records      repositories.RecordRepository
	cache        RecordCache
	audit        *AuditLogger
	schema       *models.Schema
	storeTimeout time.Duration
	logger       *slog.Logger
}

// NewRecordService creates a new record service
func NewRecordService(records repositories.RecordRepository, cache RecordCache, audit *AuditLogger, schema *models.Schema, storeTimeout time.Duration, logger *slog.Logger) RecordService {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &recordService{
		records:      records,
		cache:        cache,
		audit:        audit,
		schema:       schema,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// Schema returns the column table in use
func (s *recordService) Schema() *models.Schema {
	return s.schema
}

// List returns the cached listing with records ordered by serial
func (s *recordService) List(ctx context.Context) (*models.RecordSet, error) {
	set, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &models.RecordSet{Records: set.Sorted(), Headers: set.Headers}, nil
}

// Get looks a record up by id within the cached listing
func (s *recordService) Get(ctx context.Context, id string) (models.Record, error) {
	serial, err := models.ParseRecordID(id)
	if err != nil {
		return models.Record{}, err
	}

	set, err := s.cache.Get(ctx)
	if err != nil {
		return models.Record{}, err
	}

	record, ok := set.Find(serial)
	if !ok {
		return models.Record{}, fmt.Errorf("%w: record %d", models.ErrNotFound, serial)
	}
	return record, nil
}

// Update reconciles a caller's request against the current record, writes
// the merged row and records one audit entry per changed field. Concurrent
// updates of the same record are last-write-wins.
func (s *recordService) Update(ctx context.Context, id string, req models.UpdateRequest, actor models.Actor) (*UpdateResult, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	effective := Reconcile(s.schema, current, req, actor, now)
	return s.commit(ctx, current, effective, actor, now)
}

// SetSystemFields writes server-managed fields (like the document folder
// link) through the same audited path as user edits
func (s *recordService) SetSystemFields(ctx context.Context, id string, values map[string]string, actor models.Actor) (*UpdateResult, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	effective := models.EffectiveUpdate{
		Values:           make(map[string]string, len(values)),
		LastModifiedBy:   actor.Username,
		LastModifiedDate: now,
	}
	for field, value := range values {
		col, ok := s.schema.Lookup(field)
		if !ok || col.Kind != models.KindSystem || s.schema.IsImmutable(field) {
			return nil, fmt.Errorf("%s is not a writable system field", field)
		}
		effective.Values[field] = value
	}

	return s.commit(ctx, current, effective, actor, now)
}

// commit persists an effective update. The cache is patched before the
// write, invalidated after a successful one, and an authoritative refetch is
// scheduled either way. Audit entries are only emitted for successful writes.
func (s *recordService) commit(ctx context.Context, current models.Record, effective models.EffectiveUpdate, actor models.Actor, now time.Time) (*UpdateResult, error) {
	entries := Diff(current, effective, actor, now)
	merged := effective.Apply(current)

	if err := s.cache.Patch(ctx, merged); err != nil {
		s.logger.Warn("optimistic cache patch failed", "record_id", merged.ID(), "error", err)
	}

	if err := s.write(ctx, &merged); err != nil {
		if invErr := s.cache.Invalidate(ctx); invErr != nil {
			s.logger.Warn("failed to invalidate cache", "error", invErr)
		}
		s.scheduleRefresh()
		s.logger.Error("record write failed", "record_id", merged.ID(), "user", actor.Username, "error", err)
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate cache", "error", err)
	}

	s.logger.Info("record updated",
		"record_id", merged.ID(),
		"user", actor.Username,
		"role", actor.Role,
		"changed_fields", len(entries),
	)

	return &UpdateResult{
		Record:  merged,
		Audit:   s.audit.Record(ctx, entries),
		Refresh: s.scheduleRefresh(),
	}, nil
}

// write re-resolves the record's row by serial and overwrites it
func (s *recordService) write(ctx context.Context, record *models.Record) error {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	position, err := s.records.ResolveRow(storeCtx, record.Serial)
	if err != nil {
		return err
	}
	if position != record.RowPosition {
		s.logger.Info("record row moved since listing",
			"record_id", record.ID(),
			"from", record.RowPosition,
			"to", position,
		)
	}
	record.RowPosition = position

	if err := s.records.Write(storeCtx, *record); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("sheet write timed out", "record_id", record.ID(), "timeout", s.storeTimeout)
		}
		return err
	}
	return nil
}

// scheduleRefresh refetches the listing in the background
func (s *recordService) scheduleRefresh() *RefreshTask {
	task := &RefreshTask{done: make(chan struct{})}

	go func() {
		defer close(task.done)

		ctx, cancel := context.WithTimeout(context.Background(), s.storeTimeout)
		defer cancel()

		if _, err := s.cache.Refresh(ctx); err != nil {
			s.logger.Warn("background refresh failed", "error", err)
			task.err = err
		}
	}()

	return task
}

// History returns the audit trail of one record
func (s *recordService) History(ctx context.Context, id string) ([]models.AuditEntry, error) {
	serial, err := models.ParseRecordID(id)
	if err != nil {
		return nil, err
	}

	entries, err := s.audit.History(ctx, strconv.Itoa(serial))
	if err != nil {
		return nil, fmt.Errorf("failed to get record history: %w", err)
	}
	return entries, nil
}

// AllUpdates returns the full audit trail, newest first. Admin only.
func (s *recordService) AllUpdates(ctx context.Context, actor models.Actor) ([]models.AuditEntry, error) {
	if !actor.Role.IsPrivileged() {
		return nil, models.ErrForbidden
	}

	entries, err := s.audit.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}
	return entries, nil
}
