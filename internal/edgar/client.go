package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"counselfinder/internal/config"
	apierrors "counselfinder/internal/errors"
	"counselfinder/pkg/contracts/domain"
)

// Default SEC endpoints. Overridable on the client for tests.
const (
	defaultSearchURL      = "https://efts.sec.gov/LATEST/search-index"
	defaultTickersURL     = "https://www.sec.gov/files/company_tickers.json"
	defaultSubmissionsURL = "https://data.sec.gov/submissions"
	defaultArchivesURL    = "https://www.sec.gov/Archives/edgar/data"

	// tickerIndexTTL caches the company index; the SEC updates it daily
	tickerIndexTTL = time.Hour

	maxRetries = 3
)

// Client talks to the SEC EDGAR endpoints. All requests go through a
// shared rate limiter and carry the configured User-Agent, which the SEC
// requires to include a contact address.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     *slog.Logger

	SearchURL      string
	TickersURL     string
	SubmissionsURL string
	ArchivesURL    string

	mu          sync.Mutex
	tickerIndex map[string]domain.CompanyIdentity
	indexLoaded time.Time
}

// NewClient creates an EDGAR client from configuration.
func NewClient(cfg config.EDGARConfig, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		userAgent:  cfg.UserAgent,
		logger:     logger.With(slog.String("component", "edgar_client")),

		SearchURL:      defaultSearchURL,
		TickersURL:     defaultTickersURL,
		SubmissionsURL: defaultSubmissionsURL,
		ArchivesURL:    defaultArchivesURL,
	}
}

// get performs a rate-limited GET with the SEC headers set.
func (c *Client) get(ctx context.Context, rawURL string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.WrapUpstream("EDGAR", err)
	}
	return resp, nil
}

// getJSON fetches a URL with retries and decodes the JSON body into v.
// Retries use exponential backoff (1s, 2s) the way transient SEC errors
// usually clear.
func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, v interface{}) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.get(ctx, rawURL, params)
		if err != nil {
			lastErr = err
			continue
		}

		func() {
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests {
				lastErr = apierrors.ErrRateLimited
				return
			}
			if resp.StatusCode != http.StatusOK {
				lastErr = fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
				return
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				lastErr = apierrors.WrapUpstream("EDGAR", err)
				return
			}
			if len(body) == 0 {
				lastErr = fmt.Errorf("empty response from %s", rawURL)
				return
			}
			if err := json.Unmarshal(body, v); err != nil {
				lastErr = fmt.Errorf("failed to decode response from %s: %w", rawURL, err)
				return
			}
			lastErr = nil
		}()

		if lastErr == nil {
			return nil
		}

		c.logger.WarnContext(ctx, "EDGAR request failed, retrying",
			slog.String("url", rawURL),
			slog.Int("attempt", attempt+1),
			slog.String("error", lastErr.Error()),
		)
	}

	return lastErr
}
