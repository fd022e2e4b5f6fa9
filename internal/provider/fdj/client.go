// Package fdj provides the HTTP client for the FDJ open-data records API.
//
// Each game is a dataset; one search request returns the most recent draws
// sorted by date descending. Rate limiting is handled via a token bucket
// limiter.
package fdj

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/albapepper/lottery-data/internal/provider"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("FDJ API returned %d: %s", e.StatusCode, e.Body)
}

// Client is the HTTP client for FDJ dataset searches.
type Client struct {
	httpClient *http.Client
	baseURL    string
	rows       int
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an FDJ client with rate limiting. rows bounds the number
// of records requested per dataset.
func NewClient(baseURL string, rows, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		rows:       rows,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// searchResponse is the records API envelope. Only the fields map of each
// record is used.
type searchResponse struct {
	NHits   int `json:"nhits"`
	Records []struct {
		RecordID string          `json:"recordid"`
		Fields   provider.Fields `json:"fields"`
	} `json:"records"`
}

// FetchRecords returns the field maps of the most recent draws of game.
// A missing or empty records list is not an error.
func (c *Client) FetchRecords(ctx context.Context, game provider.Game) ([]provider.Fields, error) {
	cfg := game.Config()
	if cfg.Dataset == "" {
		return nil, fmt.Errorf("no dataset configured for game %q", game)
	}

	params := url.Values{
		"dataset": {cfg.Dataset},
		"rows":    {strconv.Itoa(c.rows)},
		"sort":    {"-date_tirage"},
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	records := make([]provider.Fields, 0, len(resp.Records))
	for _, r := range resp.Records {
		if r.Fields == nil {
			r.Fields = provider.Fields{}
		}
		records = append(records, r.Fields)
	}

	c.logger.Info("Fetched FDJ records", "game", game, "dataset", cfg.Dataset,
		"records", len(records), "nhits", resp.NHits)
	return records, nil
}

// get performs a rate-limited GET request against the search endpoint.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", params.Get("dataset"), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(body, 200)}
	}
	return body, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
