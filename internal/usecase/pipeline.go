package usecase

import (
	"context"
	"log/slog"

	"SecurityWatchdog/internal/analyzer"
	"SecurityWatchdog/internal/domain"
	"SecurityWatchdog/internal/ports"
)

// PipelineDeps wires the driven adapters into the per-item workflow.
type PipelineDeps struct {
	Analyzer   *analyzer.Analyzer
	Content    ports.ContentFetcher
	Repository ports.ItemRepository
	Events     *Events
	Logger     *slog.Logger
}

// Pipeline routes candidate items through dedup, the relevance filter,
// content enrichment, export, and notification. It is owned by a single
// scheduler worker; none of its state is safe for concurrent use.
type Pipeline struct {
	analyzer   *analyzer.Analyzer
	content    ports.ContentFetcher
	repository ports.ItemRepository
	events     *Events
	logger     *slog.Logger

	// seen is the dedup ledger: every link ever surfaced in this
	// scheduler lifetime, accepted or rejected. It only grows.
	seen     map[string]struct{}
	accepted []domain.EnrichedItem
}

// NewPipeline constructs the per-item workflow with an empty ledger.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		analyzer:   deps.Analyzer,
		content:    deps.Content,
		repository: deps.Repository,
		events:     deps.Events,
		logger:     deps.Logger,
		seen:       map[string]struct{}{},
	}
}

// BeginCycle resets the accepted-this-cycle buffer. The dedup ledger
// deliberately survives across cycles.
func (p *Pipeline) BeginCycle() {
	p.accepted = p.accepted[:0]
}

// Accepted returns the items accepted since the last BeginCycle.
func (p *Pipeline) Accepted() []domain.EnrichedItem {
	return p.accepted
}

// Process runs every candidate item through the pipeline stages and
// emits one item event per non-duplicate item, in discovery order.
func (p *Pipeline) Process(ctx context.Context, items []domain.Item, sourceName, categoryHint string) {
	for _, item := range items {
		if item.Link == "" {
			p.debug("skipping item without link", "title", item.Title)
			continue
		}

		// Duplicates are dropped before any evaluation: no event, no
		// filter run, no content fetch.
		if _, dup := p.seen[item.Link]; dup {
			continue
		}
		// Marked seen regardless of the accept/reject outcome below, so
		// a link is never evaluated twice in one scheduler lifetime.
		p.seen[item.Link] = struct{}{}

		enriched := p.classify(item, sourceName, categoryHint)

		if enriched.Accepted() && p.content != nil {
			enriched.Content = p.content.FetchArticleText(ctx, enriched.Link)
		}

		if enriched.Accepted() {
			p.accepted = append(p.accepted, enriched)
		}

		if p.repository != nil {
			if _, err := p.repository.AppendIfNew(ctx, enriched); err != nil && p.logger != nil {
				p.logger.Error("export failed", "link", enriched.Link, "error", err)
			}
		}

		if p.events != nil {
			p.events.Publish(domain.Event{Kind: domain.EventItem, Item: enriched})
		}
	}
}

// classify applies the relevance filter and stamps status. Rejected
// items keep the original category hint so downstream consumers can
// still group the noise by where it would have gone.
func (p *Pipeline) classify(item domain.Item, sourceName, categoryHint string) domain.EnrichedItem {
	enriched := domain.EnrichedItem{
		Item:     item,
		Source:   sourceName,
		Category: categoryHint,
		Status:   domain.StatusRejected,
	}

	if p.analyzer == nil {
		return enriched
	}

	if result, ok := p.analyzer.Analyze(item, categoryHint); ok {
		enriched.Category = result.Category
		enriched.MatchedKeyword = result.MatchedKeyword
		enriched.Status = domain.StatusAccepted
	}
	return enriched
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
