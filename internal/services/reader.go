package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"indentdesk/internal/cache"
	"indentdesk/internal/infrastructure"
	"indentdesk/internal/sheets"
	"indentdesk/pkg/contracts/domain"
)

const (
	sheetKeyPrefix = "sheet:"
	masterKey      = "master"
)

// SheetReader reads sheets through the cache. A cache failure never fails
// a read; the store is asked instead.
//
// Every key carries a generation that Invalidate bumps. A fetch only fills
// the cache when its key's generation is unchanged since the fetch began,
// so a read that overlaps a write never caches the rows from before it.
type SheetReader struct {
	store   sheets.Store
	cache   cache.Cache
	ttl     time.Duration
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger

	genMu       sync.Mutex
	generations map[string]uint64
}

// NewSheetReader creates a reader. c may be nil to disable caching and
// metrics may be nil.
func NewSheetReader(store sheets.Store, c cache.Cache, ttl time.Duration, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *SheetReader {
	if c == nil {
		c = cache.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetReader{
		store:   store,
		cache:   c,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "sheet_reader")),

		generations: make(map[string]uint64),
	}
}

// Store returns the underlying row store
func (r *SheetReader) Store() sheets.Store {
	return r.store
}

// Rows returns the rows of a sheet
func (r *SheetReader) Rows(ctx context.Context, sheet string) ([]sheets.Row, error) {
	key := sheetKeyPrefix + sheet

	var rows []sheets.Row
	hit, err := cache.GetJSON(ctx, r.cache, key, &rows)
	if err != nil {
		r.logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	r.metrics.RecordCacheLookup(ctx, sheet, hit)
	if hit {
		return rows, nil
	}

	gen := r.generation(key)
	rows, err = r.store.Fetch(ctx, sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrStoreUnavailable, sheet, err)
	}
	r.remember(ctx, key, gen, rows)
	return rows, nil
}

// Master returns the MASTER reference options
func (r *SheetReader) Master(ctx context.Context) (domain.MasterOptions, error) {
	var opts domain.MasterOptions
	hit, err := cache.GetJSON(ctx, r.cache, masterKey, &opts)
	if err != nil {
		r.logger.WarnContext(ctx, "cache read failed", slog.String("key", masterKey), slog.String("error", err.Error()))
	}
	r.metrics.RecordCacheLookup(ctx, domain.SheetMaster, hit)
	if hit {
		return opts, nil
	}

	gen := r.generation(masterKey)
	opts, err = r.store.FetchMaster(ctx)
	if err != nil {
		return domain.MasterOptions{}, fmt.Errorf("%w: fetch %s: %w", ErrStoreUnavailable, domain.SheetMaster, err)
	}
	r.remember(ctx, masterKey, gen, opts)
	return opts, nil
}

// Invalidate drops the cached copies of the named sheets
func (r *SheetReader) Invalidate(ctx context.Context, names ...string) {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		if name == domain.SheetMaster {
			keys = append(keys, masterKey)
			continue
		}
		keys = append(keys, sheetKeyPrefix+name)
	}

	r.genMu.Lock()
	for _, key := range keys {
		r.generations[key]++
	}
	r.genMu.Unlock()

	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.WarnContext(ctx, "cache invalidation failed", slog.Any("sheets", names), slog.String("error", err.Error()))
	}
}

// Warm refetches the named sheets concurrently and replaces their cached
// copies
func (r *SheetReader) Warm(ctx context.Context, names ...string) error {
	gens := make(map[string]uint64, len(names))
	for _, name := range names {
		gens[name] = r.generation(sheetKeyPrefix + name)
	}

	all, err := sheets.FetchAll(ctx, r.store, names...)
	if err != nil {
		return fmt.Errorf("%w: warm cache: %w", ErrStoreUnavailable, err)
	}
	for name, rows := range all {
		r.remember(ctx, sheetKeyPrefix+name, gens[name], rows)
	}
	r.logger.DebugContext(ctx, "cache warmed", slog.Any("sheets", names))
	return nil
}

func (r *SheetReader) generation(key string) uint64 {
	r.genMu.Lock()
	defer r.genMu.Unlock()
	return r.generations[key]
}

// remember caches value unless key was invalidated after gen was read. The
// lock is held through the write so an Invalidate cannot slip between the
// check and the Set.
func (r *SheetReader) remember(ctx context.Context, key string, gen uint64, value interface{}) {
	r.genMu.Lock()
	defer r.genMu.Unlock()

	if r.generations[key] != gen {
		r.logger.DebugContext(ctx, "stale fetch not cached", slog.String("key", key))
		return
	}
	if err := cache.SetJSON(ctx, r.cache, key, value, r.ttl); err != nil {
		r.logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// readSheet fetches a sheet and decodes it into records
func readSheet[T any](ctx context.Context, r *SheetReader, sheet string) ([]T, error) {
	rows, err := r.Rows(ctx, sheet)
	if err != nil {
		return nil, err
	}
	records, err := sheets.Decode[T](rows)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", sheet, err)
	}
	return records, nil
}
