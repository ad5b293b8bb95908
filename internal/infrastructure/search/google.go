package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"SecurityWatchdog/internal/collector"
	"SecurityWatchdog/internal/config"
	"SecurityWatchdog/internal/domain"
)

const (
	defaultEndpoint = "https://www.googleapis.com/customsearch/v1"
	dateLayout      = "2006-01-02 15:04:05"
)

// GoogleCollector queries the Google Custom Search JSON API for fresh
// articles matching a standing query. Results are restricted to the
// last two days so the sweep behaves like an alert, not an archive.
type GoogleCollector struct {
	endpoint string
	apiKey   string
	cseID    string
	client   *http.Client
}

var _ collector.Collector = (*GoogleCollector)(nil)

// NewGoogleCollector builds a collector from configuration.
func NewGoogleCollector(cfg config.SearchAPIConfig, client *http.Client) *GoogleCollector {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &GoogleCollector{
		endpoint: defaultEndpoint,
		apiKey:   cfg.APIKey,
		cseID:    cfg.CSEID,
		client:   client,
	}
}

// Kind identifies the strategy inside the registry.
func (g *GoogleCollector) Kind() string {
	return "search"
}

// Configured reports whether the API credentials are present.
func (g *GoogleCollector) Configured() bool {
	return g.apiKey != "" && g.cseID != ""
}

// Collect runs req.Target as a search query. The provider does not
// guarantee structured publication dates, so every result carries the
// capture time instead.
func (g *GoogleCollector) Collect(ctx context.Context, req collector.Request) ([]domain.Item, error) {
	if !g.Configured() {
		return nil, fmt.Errorf("search API key or CSE ID missing")
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.cseID)
	params.Set("q", req.Target)
	params.Set("dateRestrict", "d2")
	params.Set("sort", "date")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %s", resp.Status)
	}

	var payload struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	captured := time.Now().Format(dateLayout)
	items := make([]domain.Item, 0, len(payload.Items))
	for _, result := range payload.Items {
		title := result.Title
		if title == "" {
			title = domain.DefaultTitle
		}
		items = append(items, domain.Item{
			Title:       title,
			Link:        result.Link,
			Description: result.Snippet,
			Date:        captured,
		})
	}
	return items, nil
}
