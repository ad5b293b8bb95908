package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"SecurityWatchdog/internal/domain"
	"SecurityWatchdog/internal/ports"
)

const (
	// Items whose content is shorter than this cannot be summarized
	// meaningfully; the extraction sentinels also fall below it.
	minReportContent = 200
	// Each article's content is truncated before prompting to respect
	// the generation backend's input budget.
	maxContentChars = 5000

	// AdvisoryMissingKey is returned instead of a report when the digest
	// backend has no credentials.
	AdvisoryMissingKey = "Gemini API key is missing. Add GEMINI_API_KEY to your environment to enable reports."
	// AdvisoryNoContent is returned when no accepted item carried enough
	// content to summarize.
	AdvisoryNoContent = "No articles with sufficient content found to generate a report."
)

// Reporter turns one cycle's accepted items into a natural-language
// digest. It never fails: missing credentials and generation errors are
// rendered as report text so the cycle completes normally.
type Reporter struct {
	client ports.DigestClient
	logger *slog.Logger
}

// NewReporter wires the digest backend; a nil client disables reporting
// with an advisory instead of an error.
func NewReporter(client ports.DigestClient, logger *slog.Logger) *Reporter {
	return &Reporter{client: client, logger: logger}
}

// Report generates the digest for the cycle's accepted items.
func (r *Reporter) Report(ctx context.Context, items []domain.EnrichedItem) string {
	if r.client == nil {
		return AdvisoryMissingKey
	}

	prompt, ok := buildDigestPrompt(items)
	if !ok {
		return AdvisoryNoContent
	}

	if r.logger != nil {
		r.logger.Info("generating digest", "articles", len(items))
	}

	report, err := r.client.Generate(ctx, prompt)
	if err != nil {
		if r.logger != nil {
			r.logger.Error("digest generation failed", "error", err)
		}
		return fmt.Sprintf("An error occurred while generating the report: %v", err)
	}
	return report
}

// buildDigestPrompt assembles the instruction block and the article
// context. It reports false when no item carries enough content.
func buildDigestPrompt(items []domain.EnrichedItem) (string, bool) {
	var context strings.Builder
	valid := 0
	for _, item := range items {
		if len(item.Content) <= minReportContent {
			continue
		}
		valid++

		snippet := item.Content
		if len(snippet) > maxContentChars {
			snippet = snippet[:maxContentChars]
		}

		fmt.Fprintf(&context, "---\nARTICLE %d\nTitle: %s\nSource: %s\nDate: %s\nContent:\n%s\n---\n",
			valid, item.Title, item.Source, item.Date, snippet)
	}

	if valid == 0 {
		return "", false
	}

	var prompt strings.Builder
	prompt.WriteString(`You are an expert cybersecurity analyst specialized in IoT (Internet of Things) and data protection.
Your task is to produce a daily "IoT Security Watch Report" based on the articles provided.

The report must be written in Markdown and include:
1. **Executive Summary**: a brief overview of the day's key trends or critical threats, with a particular focus on IoT data security.
2. **Critical Threats**: highlight the most important vulnerabilities or attacks mentioned.
3. **Emerging Trends**: attack patterns, new technologies, or defense strategies.
4. **Practical Guidance**: specific recommendations for IT administrators or users.
5. **Article Summaries**: one key sentence for each relevant article.

If the articles contain noise or irrelevant commercial material, ignore it. Focus on technical impact and security.

ARTICLES TO ANALYZE:
`)
	prompt.WriteString(context.String())

	return prompt.String(), true
}
