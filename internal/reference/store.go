package reference

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	apierrors "counselfinder/internal/errors"
	"counselfinder/pkg/contracts/domain"
)

// DefaultTTL is how long a loaded table is served before the data
// directory is rescanned for a newer file.
const DefaultTTL = time.Hour

// Store caches the active reference table and reloads it when the TTL
// expires or a reload is forced. All methods are safe for concurrent use.
type Store struct {
	dataDir string
	ttl     time.Duration
	logger  *slog.Logger

	mu       sync.RWMutex
	table    domain.ReferenceTable
	status   domain.ReferenceStatus
	loadedAt time.Time
}

// NewStore creates a reference store over the given data directory.
func NewStore(dataDir string, logger *slog.Logger) *Store {
	return &Store{
		dataDir: dataDir,
		ttl:     DefaultTTL,
		logger:  logger.With(slog.String("component", "reference_store")),
	}
}

// WithTTL overrides the reload interval. Zero disables TTL-based reloads.
func (s *Store) WithTTL(ttl time.Duration) *Store {
	s.ttl = ttl
	return s
}

// Table returns the active reference table, reloading it first if the
// cached copy is stale. An empty table is returned when no reference
// file is available; callers then pass rows through unenriched.
func (s *Store) Table(ctx context.Context) domain.ReferenceTable {
	s.mu.RLock()
	fresh := !s.loadedAt.IsZero() && (s.ttl <= 0 || time.Since(s.loadedAt) < s.ttl)
	table := s.table
	s.mu.RUnlock()

	if fresh {
		return table
	}

	if err := s.Reload(ctx); err != nil {
		s.logger.InfoContext(ctx, "reference data unavailable, rows will pass through",
			slog.String("data_dir", s.dataDir),
			slog.String("reason", err.Error()),
		)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Reload rescans the data directory and loads the newest reference file.
// A missing file clears the table and returns ErrReferenceUnavailable; a
// malformed file clears the table and returns ErrDataFormat.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Mark the attempt regardless of outcome so a missing file is not
	// retried on every request within the TTL window.
	s.loadedAt = time.Now()

	path, fileDate, ok := LocateLatest(s.dataDir)
	if !ok {
		s.table = nil
		s.status = domain.ReferenceStatus{Available: false}
		return fmt.Errorf("%w: no reference file in %s", apierrors.ErrReferenceUnavailable, s.dataDir)
	}

	table, err := Load(path, s.logger)
	if err != nil {
		s.table = nil
		s.status = domain.ReferenceStatus{Available: false}
		s.logger.WarnContext(ctx, "failed to load reference file, treating as missing",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.table = table
	s.status = domain.ReferenceStatus{
		Available: true,
		FileName:  filepath.Base(path),
		FileDate:  fileDate,
		Symbols:   len(table),
		LoadedAt:  s.loadedAt,
	}

	s.logger.InfoContext(ctx, "reference table loaded",
		slog.String("file", s.status.FileName),
		slog.Int("symbols", s.status.Symbols),
	)
	return nil
}

// Status reports the currently active reference file.
func (s *Store) Status(ctx context.Context) domain.ReferenceStatus {
	// Trigger a lazy load so status reflects what a search would see
	s.Table(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// EnrichEntityRows joins company rows against the reference table. Rows
// whose ticker is absent from a loaded table are dropped; with no table
// loaded every row passes through with a nil market cap.
func (s *Store) EnrichEntityRows(ctx context.Context, rows []domain.EntityCompanyRow) []domain.EntityCompanyRow {
	table := s.Table(ctx)
	if len(table) == 0 {
		return rows
	}

	enriched := make([]domain.EntityCompanyRow, 0, len(rows))
	for _, row := range rows {
		rec, ok := table.Lookup(row.Ticker)
		if !ok {
			continue
		}
		marketCap := rec.MarketCap
		row.MarketCap = &marketCap
		enriched = append(enriched, row)
	}
	return enriched
}

// EnrichCompanyRows attaches the searched company's own market cap to each
// counsel row. The ticker being absent does not drop rows here, the
// counsel findings stand on their own.
func (s *Store) EnrichCompanyRows(ctx context.Context, ticker string, rows []domain.CompanyCounselRow) []domain.CompanyCounselRow {
	table := s.Table(ctx)
	rec, ok := table.Lookup(ticker)
	if !ok {
		return rows
	}

	enriched := make([]domain.CompanyCounselRow, len(rows))
	for i, row := range rows {
		marketCap := rec.MarketCap
		row.MarketCap = &marketCap
		enriched[i] = row
	}
	return enriched
}
