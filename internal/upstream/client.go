package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/forecastpulse/internal/domain/models"
	"github.com/guttosm/forecastpulse/internal/logger"
	"github.com/guttosm/forecastpulse/internal/metrics"
	"github.com/guttosm/forecastpulse/internal/series"
)

const (
	endpointTickers     = "tickers"
	endpointPredictions = "predictions"
	endpointHistory     = "history"
)

// maxBodyBytes caps a single response body. Larger bodies fail the fetch.
var maxBodyBytes int64 = 32 << 20

// Payload is the result of one combined fetch for a ticker.
type Payload struct {
	Tickers     []string
	Predictions []models.RawPredictionRecord
	History     []models.RawHistoryRecord
	FetchedAt   time.Time
}

// Client talks to the prediction/history service.
//
// Every call goes to the network; responses are never cached.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for baseURL (e.g. "https://api.example.com").
//
// Parameters:
//   - baseURL (string): service root, without trailing slash.
//   - timeout (time.Duration): per-request timeout; 0 disables it.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Tickers returns the list of available tickers. A well-formed body whose
// "tickers" member is missing or not an array yields an empty list;
// non-string entries are ignored.
func (c *Client) Tickers(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, endpointTickers, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Tickers []json.RawMessage `json:"tickers"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return []string{}, nil
	}
	out := make([]string, 0, len(resp.Tickers))
	for _, raw := range resp.Tickers {
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// Predictions returns the raw prediction records for ticker.
func (c *Client) Predictions(ctx context.Context, ticker string) ([]models.RawPredictionRecord, error) {
	body, err := c.get(ctx, endpointPredictions, url.Values{"ticker": {ticker}})
	if err != nil {
		return nil, err
	}
	recs, skipped := series.DecodePredictions(body)
	if skipped > 0 {
		metrics.MalformedRecords.WithLabelValues(endpointPredictions).Add(float64(skipped))
	}
	return recs, nil
}

// History returns the raw history records for ticker.
func (c *Client) History(ctx context.Context, ticker string) ([]models.RawHistoryRecord, error) {
	body, err := c.get(ctx, endpointHistory, url.Values{"ticker": {ticker}})
	if err != nil {
		return nil, err
	}
	recs, skipped := series.DecodeHistory(body)
	if skipped > 0 {
		metrics.MalformedRecords.WithLabelValues(endpointHistory).Add(float64(skipped))
	}
	return recs, nil
}

// FetchAll fetches tickers, predictions and history concurrently.
//
// The three calls succeed or fail together: the first failure cancels the
// others and is returned, and no partial Payload is ever produced.
func (c *Client) FetchAll(ctx context.Context, ticker string) (*Payload, error) {
	var p Payload
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := c.Tickers(gctx)
		p.Tickers = t
		return err
	})
	g.Go(func() error {
		r, err := c.Predictions(gctx, ticker)
		p.Predictions = r
		return err
	})
	g.Go(func() error {
		r, err := c.History(gctx, ticker)
		p.History = r
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.FetchedAt = time.Now().UTC()
	return &p, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > maxBodyBytes {
		metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("body exceeds %d bytes", maxBodyBytes)}
	}
	// Truncated or non-JSON bodies fail the fetch; only the shape is lenient.
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("decode body: %w", err)}
	}

	metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OutcomeOK).Inc()
	logger.L().Debug().
		Str("endpoint", endpoint).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("upstream fetch")
	return body, nil
}
