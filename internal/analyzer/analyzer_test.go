package analyzer

import (
	"testing"

	"SecurityWatchdog/internal/config"
	"SecurityWatchdog/internal/domain"
)

func sensorSources() map[string][]config.SourceConfig {
	return map[string][]config.SourceConfig{
		"sensors_devices": {
			{Name: "feed-a", URL: "https://a.example/feed", Keywords: []string{"firmware"}},
		},
	}
}

func TestAnalyzeAcceptsKeywordMatch(t *testing.T) {
	t.Parallel()

	a := New(sensorSources(), NewLexiconClassifier(), nil)

	item := domain.Item{
		Title:       "New Firmware Update Improves Sensor Battery Life",
		Link:        "https://x/1",
		Description: "Vendors ship an update for connected sensors.",
	}

	result, ok := a.Analyze(item, "sensors_devices")
	if !ok {
		t.Fatalf("expected item to be accepted")
	}
	if result.Category != "sensors_devices" {
		t.Fatalf("unexpected category: %s", result.Category)
	}
	if result.MatchedKeyword != "firmware" {
		t.Fatalf("unexpected matched keyword: %s", result.MatchedKeyword)
	}
}

func TestAnalyzeRejectsWithoutKeyword(t *testing.T) {
	t.Parallel()

	a := New(sensorSources(), NewLexiconClassifier(), nil)

	item := domain.Item{
		Title:       "Quarterly Results Beat Expectations",
		Link:        "https://x/2",
		Description: "Revenue grew across all segments.",
	}

	if _, ok := a.Analyze(item, "sensors_devices"); ok {
		t.Fatalf("expected item without keywords to be rejected")
	}
}

func TestAnalyzeKeywordGateIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	a := New(sensorSources(), nil, nil)

	item := domain.Item{Title: "FIRMWARE flaw disclosed", Link: "https://x/3"}
	if _, ok := a.Analyze(item, "sensors_devices"); !ok {
		t.Fatalf("expected case-insensitive keyword match to pass")
	}
}

func TestAnalyzeRejectsCommercialNoise(t *testing.T) {
	t.Parallel()

	a := New(sensorSources(), NewLexiconClassifier(), nil)

	item := domain.Item{
		Title:       "Firmware Sale: Buy Now, Limited Discount Offer, Best Deal",
		Link:        "https://x/4",
		Description: "",
	}

	if _, ok := a.Analyze(item, "sensors_devices"); ok {
		t.Fatalf("expected commercial item to be rejected by the semantic stage")
	}
}

func TestAnalyzeToleratesCommercialLanguageInTechnicalText(t *testing.T) {
	t.Parallel()

	a := New(sensorSources(), NewLexiconClassifier(), nil)

	// Heavy commercial vocabulary, but the technical score is high too:
	// the asymmetric rule keeps it.
	item := domain.Item{
		Title:       "Firmware exploit protection: buy at the best price, limited deal",
		Link:        "https://x/5",
		Description: "The vendor patched an iot security vulnerability.",
	}

	result, ok := a.Analyze(item, "sensors_devices")
	if !ok {
		t.Fatalf("expected technical item with commercial phrasing to be accepted")
	}
	if result.Category != "sensors_devices" {
		t.Fatalf("unexpected category: %s", result.Category)
	}
}

func TestAnalyzeFallsBackToKeywordOnlyWithoutClassifier(t *testing.T) {
	t.Parallel()

	// A nil classifier degrades to the keyword gate alone: pure
	// marketing passes as long as a keyword matches.
	a := New(sensorSources(), nil, nil)

	item := domain.Item{
		Title: "Firmware Sale: Buy Now, Limited Discount Offer, Best Deal",
		Link:  "https://x/6",
	}

	if _, ok := a.Analyze(item, "sensors_devices"); !ok {
		t.Fatalf("expected keyword-only fallback to accept the item")
	}
}

func TestAnalyzeUnknownCategoryRejects(t *testing.T) {
	t.Parallel()

	a := New(sensorSources(), NewLexiconClassifier(), nil)

	item := domain.Item{Title: "firmware", Link: "https://x/7"}
	if _, ok := a.Analyze(item, "no_such_category"); ok {
		t.Fatalf("expected hint without configured keywords to reject")
	}
}
