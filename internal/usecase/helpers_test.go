package usecase

import (
	"context"
	"strings"
	"sync"

	"SecurityWatchdog/internal/analyzer"
	"SecurityWatchdog/internal/collector"
	"SecurityWatchdog/internal/config"
	"SecurityWatchdog/internal/domain"
)

func watchSources() map[string][]config.SourceConfig {
	return map[string][]config.SourceConfig{
		"sensors_devices": {
			{Name: "Feed A", URL: "https://a.example/feed", Keywords: []string{"firmware"}},
			{Name: "Feed B", URL: "https://b.example/feed", Keywords: []string{"firmware"}},
		},
	}
}

func acceptedItem(link string) domain.Item {
	return domain.Item{
		Title:       "Firmware flaw in smart sensors",
		Link:        link,
		Description: "A vulnerability was found in device firmware.",
		Date:        "2026-08-31 10:00:00",
	}
}

func rejectedItem(link string) domain.Item {
	return domain.Item{
		Title:       "Weekend market roundup",
		Link:        link,
		Description: "Stocks were mixed.",
		Date:        "2026-08-31 10:00:00",
	}
}

type fakeCollector struct {
	kind     string
	byTarget map[string][]domain.Item
	failing  map[string]error
	calls    []string
}

func (f *fakeCollector) Kind() string { return f.kind }

func (f *fakeCollector) Collect(_ context.Context, req collector.Request) ([]domain.Item, error) {
	f.calls = append(f.calls, req.Target)
	if err, ok := f.failing[req.Target]; ok {
		return nil, err
	}
	return f.byTarget[req.Target], nil
}

type fakeFetcher struct {
	urls []string
	text string
}

func (f *fakeFetcher) FetchArticleText(_ context.Context, url string) string {
	f.urls = append(f.urls, url)
	if f.text != "" {
		return f.text
	}
	return strings.Repeat("Extracted article body. ", 20)
}

type fakeDigestClient struct {
	prompts []string
	report  string
	err     error
}

func (f *fakeDigestClient) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.report, nil
}

type fakeRepository struct {
	mu    sync.Mutex
	items []domain.EnrichedItem
	err   error
}

func (f *fakeRepository) AppendIfNew(_ context.Context, item domain.EnrichedItem) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, existing := range f.items {
		if existing.Link == item.Link {
			return false, nil
		}
	}
	f.items = append(f.items, item)
	return true, nil
}

func newTestPipeline(fetcher *fakeFetcher, repo *fakeRepository, events *Events) *Pipeline {
	return NewPipeline(PipelineDeps{
		Analyzer:   analyzer.New(watchSources(), analyzer.NewLexiconClassifier(), nil),
		Content:    fetcher,
		Repository: repo,
		Events:     events,
		Logger:     nil,
	})
}

func drainEvents(events *Events) (items []domain.EnrichedItem, reports []string) {
	for {
		select {
		case event := <-events.Channel():
			switch event.Kind {
			case domain.EventItem:
				items = append(items, event.Item)
			case domain.EventReport:
				reports = append(reports, event.Report)
			}
		default:
			return items, reports
		}
	}
}
