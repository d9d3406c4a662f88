package edgar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apierrors "counselfinder/internal/errors"
	"counselfinder/pkg/contracts/domain"
)

// tickerEntry matches one value of the company_tickers.json object, which
// is keyed by arbitrary index strings.
type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// ResolveTicker maps a ticker symbol to its SEC company identity using
// the cached ticker index. Bloomberg-style " US Equity" suffixes are
// tolerated.
func (c *Client) ResolveTicker(ctx context.Context, ticker string) (domain.CompanyIdentity, error) {
	normalized := domain.NormalizeSymbol(strings.TrimSuffix(strings.TrimSpace(ticker), " US Equity"))
	if normalized == "" {
		return domain.CompanyIdentity{}, fmt.Errorf("%w: empty ticker", apierrors.ErrNoCIKForTicker)
	}

	index, err := c.tickerIndexCached(ctx)
	if err != nil {
		return domain.CompanyIdentity{}, err
	}

	identity, ok := index[normalized]
	if !ok {
		return domain.CompanyIdentity{}, fmt.Errorf("%w: %s", apierrors.ErrNoCIKForTicker, normalized)
	}
	return identity, nil
}

// Companies returns the full ticker index for autocomplete-style lookups.
func (c *Client) Companies(ctx context.Context) ([]domain.CompanyIdentity, error) {
	index, err := c.tickerIndexCached(ctx)
	if err != nil {
		return nil, err
	}

	companies := make([]domain.CompanyIdentity, 0, len(index))
	for _, identity := range index {
		companies = append(companies, identity)
	}
	return companies, nil
}

// tickerIndexCached loads the SEC company index, serving a cached copy
// within the TTL window.
func (c *Client) tickerIndexCached(ctx context.Context) (map[string]domain.CompanyIdentity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tickerIndex != nil && time.Since(c.indexLoaded) < tickerIndexTTL {
		return c.tickerIndex, nil
	}

	var raw map[string]tickerEntry
	if err := c.getJSON(ctx, c.TickersURL, nil, &raw); err != nil {
		// A stale index beats no index
		if c.tickerIndex != nil {
			c.logger.WarnContext(ctx, "serving stale ticker index after refresh failure",
				slog.String("error", err.Error()),
			)
			return c.tickerIndex, nil
		}
		return nil, err
	}

	index := make(map[string]domain.CompanyIdentity, len(raw))
	for _, entry := range raw {
		symbol := domain.NormalizeSymbol(entry.Ticker)
		if symbol == "" {
			continue
		}
		index[symbol] = domain.CompanyIdentity{
			CIK:    fmt.Sprintf("%010d", entry.CIK),
			Name:   entry.Title,
			Ticker: symbol,
		}
	}

	c.tickerIndex = index
	c.indexLoaded = time.Now()
	c.logger.InfoContext(ctx, "ticker index loaded", slog.Int("companies", len(index)))
	return index, nil
}
