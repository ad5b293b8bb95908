package domain

import "time"

// DefaultTitle replaces a missing title on collected items.
const DefaultTitle = "No Title"

// Status marks the relevance-filter outcome for an item.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Item is a raw candidate surfaced by a collector before filtering.
// Link is the sole identity key: two items with equal links are the
// same item regardless of any other field.
type Item struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// EnrichedItem is an Item after it passed through the pipeline stages.
type EnrichedItem struct {
	Item
	Source         string    `json:"source"`
	Category       string    `json:"category"`
	Status         Status    `json:"status"`
	MatchedKeyword string    `json:"matched_keyword,omitempty"`
	Content        string    `json:"content,omitempty"`
	CapturedAt     time.Time `json:"captured_at,omitempty"`
}

// Accepted reports whether the item survived the relevance filter.
func (e EnrichedItem) Accepted() bool {
	return e.Status == StatusAccepted
}
