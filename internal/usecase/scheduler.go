package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"SecurityWatchdog/internal/collector"
	"SecurityWatchdog/internal/config"
	"SecurityWatchdog/internal/domain"
	"SecurityWatchdog/internal/ports"
)

const (
	feedCollectorKind   = "rss"
	searchCollectorKind = "search"
	searchSourceName    = "Google Search Watch"
	maxQueryKeywords    = 5
)

// SchedulerDeps wires everything one scheduler instance owns.
type SchedulerDeps struct {
	Registry        *collector.Registry
	Pipeline        *Pipeline
	Reporter        *Reporter
	Publisher       ports.ReportPublisher
	Events          *Events
	Sources         map[string][]config.SourceConfig
	Searches        []config.SearchQueryConfig
	RefreshInterval time.Duration
	SearchInterval  time.Duration
	Logger          *slog.Logger
}

// Scheduler drives an unbounded sequence of collection cycles. Feeds
// run every cycle; the search sweep runs only when its longer interval
// has elapsed, protecting the quota-limited search API. Stop requests
// are sampled between cycles only: a cycle in progress completes.
type Scheduler struct {
	registry        *collector.Registry
	pipeline        *Pipeline
	reporter        *Reporter
	publisher       ports.ReportPublisher
	events          *Events
	sources         map[string][]config.SourceConfig
	searches        []config.SearchQueryConfig
	refreshInterval time.Duration
	searchInterval  time.Duration
	logger          *slog.Logger

	lastSearch time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewScheduler builds a scheduler; all collection state (dedup ledger,
// cycle buffer, search clock) is owned by this instance, so independent
// schedulers do not interfere.
func NewScheduler(deps SchedulerDeps) *Scheduler {
	return &Scheduler{
		registry:        deps.Registry,
		pipeline:        deps.Pipeline,
		reporter:        deps.Reporter,
		publisher:       deps.Publisher,
		events:          deps.Events,
		sources:         deps.Sources,
		searches:        deps.Searches,
		refreshInterval: deps.RefreshInterval,
		searchInterval:  deps.SearchInterval,
		logger:          deps.Logger,
		stop:            make(chan struct{}),
	}
}

// Run executes cycles until Stop is called or the context is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	s.info("scheduler started",
		"refresh_interval", s.refreshInterval,
		"search_interval", s.searchInterval)

	for {
		s.cycle(ctx)

		select {
		case <-ctx.Done():
			s.info("scheduler stopped", "reason", "context canceled")
			return
		case <-s.stop:
			s.info("scheduler stopped", "reason", "stop requested")
			return
		case <-time.After(s.refreshInterval):
		}
	}
}

// Stop requests a cooperative shutdown, observed at the next cycle
// boundary. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Events exposes the item/report queue consumed outside the worker.
func (s *Scheduler) Events() <-chan domain.Event {
	return s.events.Channel()
}

func (s *Scheduler) cycle(ctx context.Context) {
	s.info("starting collection cycle")
	s.pipeline.BeginCycle()

	s.collectFeeds(ctx)

	if time.Since(s.lastSearch) >= s.searchInterval {
		s.collectSearches(ctx)
		s.lastSearch = time.Now()
	}

	accepted := s.pipeline.Accepted()
	s.info("cycle finished", "accepted", len(accepted))
	if len(accepted) == 0 {
		return
	}

	report := s.reporter.Report(ctx, accepted)
	s.events.Publish(domain.Event{Kind: domain.EventReport, Report: report})

	if s.publisher != nil {
		if err := s.publisher.PublishDigest(ctx, report); err != nil {
			s.warn("publish digest failed", "error", err)
		}
	}
}

// collectFeeds polls every configured source. A failing source is
// isolated: it is logged and the cycle moves on to the next one.
func (s *Scheduler) collectFeeds(ctx context.Context) {
	feeds, err := s.registry.Resolve(feedCollectorKind)
	if err != nil {
		s.warn("feed collector unavailable", "error", err)
		return
	}

	for _, category := range sortedCategories(s.sources) {
		for _, source := range s.sources[category] {
			items, err := feeds.Collect(ctx, collector.Request{
				SourceName: source.Name,
				Category:   category,
				Target:     source.URL,
			})
			if err != nil {
				s.warn("source fetch failed", "source", source.Name, "error", err)
				continue
			}
			s.pipeline.Process(ctx, items, source.Name, category)
		}
	}
}

// collectSearches runs every standing query through the search
// collector, routing results through the same pipeline as feed items.
func (s *Scheduler) collectSearches(ctx context.Context) {
	searches, err := s.registry.Resolve(searchCollectorKind)
	if err != nil {
		s.debug("search collector not registered, skipping sweep")
		return
	}

	for _, sq := range s.standingQueries() {
		items, err := searches.Collect(ctx, collector.Request{
			SourceName: searchSourceName,
			Category:   sq.Category,
			Target:     sq.Query,
		})
		if err != nil {
			s.warn("search failed", "query", sq.Query, "error", err)
			continue
		}
		s.pipeline.Process(ctx, items, searchSourceName, sq.Category)
	}
}

// standingQueries returns the configured query list, or derives one
// query per category from that category's keywords when none are
// configured.
func (s *Scheduler) standingQueries() []config.SearchQueryConfig {
	if len(s.searches) > 0 {
		return s.searches
	}

	var derived []config.SearchQueryConfig
	for _, category := range sortedCategories(s.sources) {
		if query := buildCategoryQuery(s.sources[category]); query != "" {
			derived = append(derived, config.SearchQueryConfig{Query: query, Category: category})
		}
	}
	return derived
}

// buildCategoryQuery joins the category's keywords into a quoted OR
// clause, capped to keep the query within API length limits.
func buildCategoryQuery(sources []config.SourceConfig) string {
	unique := map[string]struct{}{}
	for _, source := range sources {
		for _, kw := range source.Keywords {
			unique[kw] = struct{}{}
		}
	}
	if len(unique) == 0 {
		return ""
	}

	keywords := make([]string, 0, len(unique))
	for kw := range unique {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	if len(keywords) > maxQueryKeywords {
		keywords = keywords[:maxQueryKeywords]
	}

	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = fmt.Sprintf("%q", kw)
	}
	return fmt.Sprintf(`"IoT Security" AND (%s)`, strings.Join(quoted, " OR "))
}

func sortedCategories(sources map[string][]config.SourceConfig) []string {
	categories := make([]string, 0, len(sources))
	for category := range sources {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func (s *Scheduler) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Scheduler) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *Scheduler) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
