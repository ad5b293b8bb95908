package analyzer

import (
	"log/slog"
	"strings"

	"SecurityWatchdog/internal/config"
	"SecurityWatchdog/internal/domain"
	"SecurityWatchdog/internal/ports"
)

// Result reports how an item matched its category.
type Result struct {
	Category       string
	MatchedKeyword string
}

// Analyzer is the two-stage relevance filter: a cheap keyword gate over
// the configured category vocabulary, then a technical-vs-commercial
// classification of the same text.
type Analyzer struct {
	sources    map[string][]config.SourceConfig
	classifier ports.TechnicalityClassifier
	logger     *slog.Logger
}

// New wires the configured sources and the semantic classifier. A nil
// classifier degrades to keyword-only filtering, which is logged once
// here rather than on every item.
func New(sources map[string][]config.SourceConfig, classifier ports.TechnicalityClassifier, logger *slog.Logger) *Analyzer {
	if classifier == nil {
		if logger != nil {
			logger.Warn("semantic classifier unavailable, falling back to keyword-only filtering")
		}
		classifier = Passthrough{}
	}
	return &Analyzer{sources: sources, classifier: classifier, logger: logger}
}

// Analyze checks the item against the hinted category. It returns the
// matched category and keyword on acceptance, and ok=false when the
// item fails either stage.
func (a *Analyzer) Analyze(item domain.Item, categoryHint string) (Result, bool) {
	blob := strings.ToLower(item.Title) + " " + strings.ToLower(item.Description)

	matched, ok := a.matchKeyword(blob, categoryHint)
	if !ok {
		return Result{}, false
	}

	if !a.classifier.IsTechnical(blob) {
		if a.logger != nil {
			a.logger.Debug("filtered out as commercial/non-technical", "title", item.Title)
		}
		return Result{}, false
	}

	return Result{Category: categoryHint, MatchedKeyword: matched}, true
}

// matchKeyword scans the case-folded keyword set declared under the
// category. The set is unordered, so with several hits the reported
// keyword is simply one of them.
func (a *Analyzer) matchKeyword(blob, category string) (string, bool) {
	keywords := map[string]struct{}{}
	for _, source := range a.sources[category] {
		for _, kw := range source.Keywords {
			keywords[strings.ToLower(kw)] = struct{}{}
		}
	}

	for kw := range keywords {
		if strings.Contains(blob, kw) {
			return kw, true
		}
	}
	return "", false
}
