package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"eventboard/internal/domain"
)

type statsHTTPClient struct {
	baseURL string
	app     string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient returns a StatsClient that talks to the stats HTTP service.
// Both methods are best-effort: the caller never fails because the
// stats service is down.
func NewClient(baseURL, app string, client *http.Client, logger *slog.Logger) domain.StatsClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &statsHTTPClient{
		baseURL: baseURL,
		app:     app,
		client:  client,
		logger:  logger,
	}
}

type hitRequest struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type viewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

func (c *statsHTTPClient) Hit(ctx context.Context, uri, clientIP string, ts time.Time) {
	body, err := json.Marshal(hitRequest{
		App:       c.app,
		URI:       uri,
		IP:        clientIP,
		Timestamp: ts.Format(domain.DateTimeLayout),
	})
	if err != nil {
		c.logger.Warn("failed to encode stats hit", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("failed to create stats hit request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("failed to record stats hit", "uri", uri, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("stats service rejected hit", "uri", uri, "status", resp.StatusCode)
	}
}

func (c *statsHTTPClient) Views(ctx context.Context, uris []string, start, end time.Time, unique bool) map[string]int64 {
	views := make(map[string]int64, len(uris))
	for _, uri := range uris {
		views[uri] = 0
	}

	q := url.Values{}
	q.Set("start", start.Format(domain.DateTimeLayout))
	q.Set("end", end.Format(domain.DateTimeLayout))
	q.Set("unique", strconv.FormatBool(unique))
	for _, uri := range uris {
		q.Add("uris", uri)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+q.Encode(), nil)
	if err != nil {
		c.logger.Warn("failed to create stats views request", "error", err)
		return views
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("failed to fetch view stats", "error", err)
		return views
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("stats service returned unexpected status", "status", resp.StatusCode)
		return views
	}

	var stats []viewStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		c.logger.Warn("failed to decode view stats", "error", err)
		return views
	}
	for _, s := range stats {
		views[s.URI] = s.Hits
	}
	return views
}
