package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"SecurityWatchdog/internal/collector"
	"SecurityWatchdog/internal/domain"
)

const dateLayout = "2006-01-02 15:04:05"

// RSSCollector pulls RSS/Atom feeds and maps entries to candidate items.
type RSSCollector struct {
	parser *gofeed.Parser
}

var _ collector.Collector = (*RSSCollector)(nil)

// NewRSSCollector wires an HTTP client; the default carries a 20s timeout.
func NewRSSCollector(client *http.Client) *RSSCollector {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "SecurityWatchdog/1.0"
	return &RSSCollector{parser: parser}
}

// Kind identifies the strategy inside the registry.
func (r *RSSCollector) Kind() string {
	return "rss"
}

// Collect fetches the feed at req.Target and returns its entries.
func (r *RSSCollector) Collect(ctx context.Context, req collector.Request) ([]domain.Item, error) {
	parsed, err := r.parser.ParseURLWithContext(req.Target, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", req.Target, err)
	}

	items := make([]domain.Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		items = append(items, domain.Item{
			Title:       titleOrDefault(entry.Title),
			Link:        entry.Link,
			Description: entry.Description,
			Date:        entryDate(entry),
		})
	}
	return items, nil
}

func titleOrDefault(title string) string {
	if title == "" {
		return domain.DefaultTitle
	}
	return title
}

// entryDate prefers the published date, then the updated date, then the
// capture time, mirroring what feeds actually provide.
func entryDate(entry *gofeed.Item) string {
	switch {
	case entry.Published != "":
		return entry.Published
	case entry.Updated != "":
		return entry.Updated
	default:
		return time.Now().Format(dateLayout)
	}
}
