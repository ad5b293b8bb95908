package ports

import (
	"context"

	"SecurityWatchdog/internal/domain"
)

// ContentFetcher extracts the readable body of an article. It never
// fails past this boundary: fetch or extraction problems come back as a
// short diagnostic string so the pipeline can carry them as data.
type ContentFetcher interface {
	FetchArticleText(ctx context.Context, url string) string
}

// DigestClient sends one prompt to a text-generation backend and returns
// the generated report.
type DigestClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ItemRepository exports processed items durably, keyed on link.
type ItemRepository interface {
	// AppendIfNew stores the item unless its link is already present and
	// reports whether it was newly stored.
	AppendIfNew(ctx context.Context, item domain.EnrichedItem) (bool, error)
}

// ReportPublisher pushes a cycle digest to an outbound channel
// (Telegram, etc.).
type ReportPublisher interface {
	PublishDigest(ctx context.Context, digest string) error
}

// TechnicalityClassifier decides whether a text blob reads as technical
// security content rather than commercial noise. Implementations must be
// safe for repeated calls from a single worker.
type TechnicalityClassifier interface {
	IsTechnical(text string) bool
}
