package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"counselfinder/internal/edgar"
	"counselfinder/internal/extract"
	"counselfinder/pkg/contracts/domain"
)

// FilingSource is the slice of the EDGAR client the engine consumes.
type FilingSource interface {
	ResolveTicker(ctx context.Context, ticker string) (domain.CompanyIdentity, error)
	Companies(ctx context.Context) ([]domain.CompanyIdentity, error)
	Filings(ctx context.Context, cik string, start, end time.Time) ([]domain.Filing, error)
	DocumentText(ctx context.Context, cik string, filing domain.Filing) (string, error)
	FullTextSearch(ctx context.Context, term string, from, to time.Time, maxTotal int) ([]edgar.FullTextHit, error)
}

// CounselExtractor is the LLM extraction surface used during company
// search.
type CounselExtractor interface {
	Enabled() bool
	Extract(ctx context.Context, text, companyName string) (extract.FirmLawyers, error)
}

// Progress receives human-readable milestones while a search runs. A nil
// Progress is valid and discards everything.
type Progress func(stage, message string)

func (p Progress) emit(stage, format string, args ...any) {
	if p == nil {
		return
	}
	p(stage, fmt.Sprintf(format, args...))
}

// Engine orchestrates the three search flows over EDGAR data.
type Engine struct {
	source         FilingSource
	llm            CounselExtractor
	maxConcurrency int
	logger         *slog.Logger
}

// NewEngine wires a search engine. maxConcurrency bounds parallel filing
// processing during company search.
func NewEngine(source FilingSource, extractor CounselExtractor, maxConcurrency int, logger *slog.Logger) *Engine {
	if maxConcurrency <= 0 {
		maxConcurrency = 5
	}
	return &Engine{
		source:         source,
		llm:            extractor,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}
