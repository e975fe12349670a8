// Package ratefeed reads the central bank cash rate from an XML/RSS feed and
// turns it into an indicative investment lending rate.
package ratefeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BinaryNexusLab/real-estate/internal/config"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// Quote is one reading of the feed. Rates are fractions.
type Quote struct {
	CashRate    float64   `json:"cash_rate"`
	Margin      float64   `json:"margin"`
	LendingRate float64   `json:"lending_rate"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Client fetches the cash rate feed
type Client struct {
	url    string
	path   string
	margin float64
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new rate feed client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:    cfg.RateFeedURL,
		path:   cfg.RateFeedPath,
		margin: cfg.LenderMargin,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch downloads the raw feed
func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("Rate feed response: %d bytes", len(body))
	return body, nil
}

// parseCashRate extracts the latest observation, which feeds list first.
func parseCashRate(rawBody []byte, path string) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	p, err := etree.CompilePath(path)
	if err != nil {
		return 0, fmt.Errorf("invalid rate path %q: %w", path, err)
	}
	el := doc.FindElementPath(p)
	if el == nil {
		return 0, fmt.Errorf("no rate found at %s", path)
	}

	percent, err := strconv.ParseFloat(strings.TrimSpace(el.Text()), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse rate %q: %w", el.Text(), err)
	}
	if percent < 0 || percent >= 100 {
		return 0, fmt.Errorf("rate %.2f%% out of range", percent)
	}
	return percent / 100, nil
}

// LendingRate retrieves the current cash rate and adds the lender margin
func (c *Client) LendingRate(ctx context.Context) (Quote, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return Quote{}, err
	}

	cash, err := parseCashRate(body, c.path)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		CashRate:    cash,
		Margin:      c.margin,
		LendingRate: cash + c.margin,
		FetchedAt:   time.Now().UTC(),
	}
	c.log.Infof("Retrieved cash rate: %.2f%% (lending rate %.2f%% including %.2f%% margin)",
		q.CashRate*100, q.LendingRate*100, q.Margin*100)
	return q, nil
}
