package stockloan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jlaffaye/ftp"

	"counselfinder/internal/config"
	apierrors "counselfinder/internal/errors"
)

// Client fetches the Interactive Brokers shortstock availability feed
// over FTP. The feed is anonymous-read with a fixed username and no
// password.
type Client struct {
	cfg    config.StockLoanConfig
	logger *slog.Logger
}

func NewClient(cfg config.StockLoanConfig, logger *slog.Logger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// Fetch downloads and parses the current feed file.
func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	conn, err := ftp.Dial(c.cfg.Host,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(c.cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", apierrors.ErrStockLoanUnavailable, c.cfg.Host, err)
	}
	defer conn.Quit()

	if err := conn.Login(c.cfg.User, ""); err != nil {
		return nil, fmt.Errorf("%w: login: %v", apierrors.ErrStockLoanUnavailable, err)
	}

	resp, err := conn.Retr(c.cfg.File)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve %s: %v", apierrors.ErrStockLoanUnavailable, c.cfg.File, err)
	}
	defer resp.Close()

	snapshot, err := Parse(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierrors.ErrStockLoanUnavailable, err)
	}

	c.logger.InfoContext(ctx, "shortstock feed fetched",
		slog.String("date", snapshot.Date),
		slog.String("time", snapshot.Time),
		slog.Int("symbols", len(snapshot.Records)),
	)
	return snapshot, nil
}
