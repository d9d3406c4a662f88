package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"counselfinder/internal/exporter"
	"counselfinder/internal/stockloan"
)

// defaultSnapshotTTL bounds how often the FTP feed is re-fetched; the
// upstream file itself only updates every 15 minutes.
const defaultSnapshotTTL = 15 * time.Minute

// StockLoanFetcher pulls a fresh shortstock snapshot from the feed.
type StockLoanFetcher interface {
	Fetch(ctx context.Context) (*stockloan.Snapshot, error)
}

// SnapshotWriter streams large tables into the exports directory. The
// shortstock feed carries tens of thousands of rows, so the copy is
// written record by record instead of buffered.
type SnapshotWriter interface {
	CreateStreamWriter(filePath string, headers []string) (*exporter.StreamWriter, error)
}

// StockLoanService caches the shortstock snapshot between requests and
// serves the last good copy when the feed is briefly unreachable.
type StockLoanService struct {
	fetcher StockLoanFetcher
	exports SnapshotWriter
	ttl     time.Duration
	logger  *slog.Logger

	mu        sync.Mutex
	snapshot  *stockloan.Snapshot
	fetchedAt time.Time
}

// NewStockLoanService creates a stock loan service with the default TTL.
func NewStockLoanService(fetcher StockLoanFetcher, logger *slog.Logger) *StockLoanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StockLoanService{
		fetcher: fetcher,
		ttl:     defaultSnapshotTTL,
		logger:  logger.With(slog.String("component", "stockloan_service")),
	}
}

// WithTTL overrides the cache lifetime. Zero disables caching.
func (s *StockLoanService) WithTTL(ttl time.Duration) *StockLoanService {
	s.ttl = ttl
	return s
}

// WithExporter enables saving a CSV copy of each fresh snapshot.
func (s *StockLoanService) WithExporter(exports SnapshotWriter) *StockLoanService {
	s.exports = exports
	return s
}

// Snapshot returns the current shortstock snapshot, fetching from the
// feed when the cached copy has expired or refresh is set. A fetch
// failure falls back to the cached copy if one exists.
func (s *StockLoanService) Snapshot(ctx context.Context, refresh bool) (*stockloan.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !refresh && s.snapshot != nil && s.ttl > 0 && time.Since(s.fetchedAt) < s.ttl {
		return s.snapshot, nil
	}

	snapshot, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if s.snapshot != nil {
			s.logger.WarnContext(ctx, "shortstock fetch failed, serving cached snapshot",
				slog.String("error", err.Error()),
				slog.Time("fetched_at", s.fetchedAt),
			)
			return s.snapshot, nil
		}
		return nil, err
	}

	s.snapshot = snapshot
	s.fetchedAt = time.Now()
	s.saveSnapshot(ctx, snapshot)
	return snapshot, nil
}

// saveSnapshot streams the snapshot to the exports directory. Failures
// are logged, not returned; the response already carries the data.
func (s *StockLoanService) saveSnapshot(ctx context.Context, snapshot *stockloan.Snapshot) {
	if s.exports == nil {
		return
	}

	headers, records := exporter.StockLoanTable(snapshot)
	stream, err := s.exports.CreateStreamWriter("shortstock.csv", headers)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to save shortstock copy",
			slog.String("error", err.Error()),
		)
		return
	}
	for _, record := range records {
		if err := stream.WriteRecord(record); err != nil {
			s.logger.WarnContext(ctx, "failed to save shortstock copy",
				slog.String("error", err.Error()),
			)
			stream.Close()
			return
		}
	}
	if err := stream.Close(); err != nil {
		s.logger.WarnContext(ctx, "failed to save shortstock copy",
			slog.String("error", err.Error()),
		)
	}
}
