// Package cache keeps the last full listing of the case sheet so reads do
// not hit the sheet on every request.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/blogem/caseledger/models"
)

// DefaultDuration is how long a listing is served before it is refetched
const DefaultDuration = 120 * time.Second

// maxRefreshAttempts bounds reloads when invalidations keep racing a refetch
const maxRefreshAttempts = 3

// Loader fetches an authoritative listing from the sheet
type Loader func(ctx context.Context) (*models.RecordSet, error)

// Snapshot is one cached listing and the time it was fetched
type Snapshot struct {
	Records   *models.RecordSet `json:"records"`
	FetchedAt time.Time         `json:"fetchedAt"`
}

// Backend holds the current snapshot. Load returns nil, nil when empty.
type Backend interface {
	Load(ctx context.Context) (*Snapshot, error)
	Store(ctx context.Context, snap *Snapshot) error
	Clear(ctx context.Context) error
}

// Options configures a RecordCache
type Options struct {
	Duration time.Duration
	Clock    func() time.Time
	Backend  Backend
	Logger   *slog.Logger
}

// RecordCache serves cached listings and refetches them when stale or
// invalidated. Concurrent refetches share one sheet read, but a read that
// started before an invalidation is never stored.
type RecordCache struct {
	loader   Loader
	backend  Backend
	duration time.Duration
	now      func() time.Time
	logger   *slog.Logger
	group    singleflight.Group

	// mu guards generation and every backend mutation
	mu         sync.Mutex
	generation uint64
}

type loadResult struct {
	set    *models.RecordSet
	stored bool
}

// New creates a cache around loader. Zero options fall back to a 120s
// duration, the wall clock and an in-process backend.
func New(loader Loader, opts Options) *RecordCache {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Backend == nil {
		opts.Backend = NewMemoryBackend()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &RecordCache{
		loader:   loader,
		backend:  opts.Backend,
		duration: opts.Duration,
		now:      opts.Clock,
		logger:   opts.Logger,
	}
}

// Duration returns the configured cache lifetime
func (c *RecordCache) Duration() time.Duration {
	return c.duration
}

// Get returns the cached listing, refetching it first when stale or empty
func (c *RecordCache) Get(ctx context.Context) (*models.RecordSet, error) {
	snap, err := c.backend.Load(ctx)
	if err != nil {
		c.logger.Warn("cache backend read failed, refetching", "error", err)
		snap = nil
	}

	if snap != nil && !c.expired(snap, c.now()) {
		return snap.Records.Clone(), nil
	}

	return c.Refresh(ctx)
}

// IsStale reports whether a read at now would trigger a refetch
func (c *RecordCache) IsStale(ctx context.Context, now time.Time) bool {
	snap, err := c.backend.Load(ctx)
	if err != nil || snap == nil {
		return true
	}
	return c.expired(snap, now)
}

func (c *RecordCache) expired(snap *Snapshot, now time.Time) bool {
	return now.Sub(snap.FetchedAt) >= c.duration
}

// Invalidate drops the cached listing so the next read refetches. Refetches
// already in flight are not stored.
func (c *RecordCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if err := c.backend.Clear(ctx); err != nil {
		return fmt.Errorf("failed to invalidate record cache: %w", err)
	}
	return nil
}

// Patch optimistically swaps one record into the cached listing. The fetch
// time is kept, so the patch lives at most until the next refetch.
func (c *RecordCache) Patch(ctx context.Context, record models.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read record cache: %w", err)
	}
	if snap == nil {
		return nil
	}

	snap.Records.Replace(record)
	if err := c.backend.Store(ctx, snap); err != nil {
		return fmt.Errorf("failed to patch record cache: %w", err)
	}
	return nil
}

// Refresh forces an authoritative refetch. On failure the cached state is
// left as it was and the error is returned. When the cache is invalidated
// while the sheet is being read, the read is discarded and repeated.
func (c *RecordCache) Refresh(ctx context.Context) (*models.RecordSet, error) {
	for attempt := 1; ; attempt++ {
		gen := c.currentGeneration()

		v, err, shared := c.group.Do(strconv.FormatUint(gen, 10), func() (interface{}, error) {
			return c.load(ctx, gen)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load records: %w", err)
		}
		if shared {
			c.logger.Debug("record refetch shared between callers")
		}

		res := v.(loadResult)
		if res.stored || attempt == maxRefreshAttempts {
			return res.set.Clone(), nil
		}
		c.logger.Debug("record cache invalidated during refetch, reloading", "attempt", attempt)
	}
}

// load reads the sheet and stores the result unless gen is outdated
func (c *RecordCache) load(ctx context.Context, gen uint64) (loadResult, error) {
	set, err := c.loader(ctx)
	if err != nil {
		return loadResult{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return loadResult{set: set}, nil
	}

	snap := &Snapshot{Records: set, FetchedAt: c.now()}
	if err := c.backend.Store(ctx, snap); err != nil {
		c.logger.Warn("cache backend write failed", "error", err)
	}
	return loadResult{set: set, stored: true}, nil
}

func (c *RecordCache) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}
