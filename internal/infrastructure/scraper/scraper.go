package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"SecurityWatchdog/internal/ports"
)

const (
	// Extractions shorter than this are treated as failures: a page that
	// yields a hundred characters is boilerplate, not an article.
	minContentLength = 100

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// ErrShortContent is the sentinel stored when extraction came back
	// too short to be a real article.
	ErrShortContent = "Content too short or extraction failed."
	// ErrNoContent is the sentinel stored when no body container was found.
	ErrNoContent = "Could not extract content."
)

var contentClassExpr = regexp.MustCompile(`(content|article|post|story|body)`)

// Scraper fetches an article page and extracts its main readable text.
type Scraper struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.ContentFetcher = (*Scraper)(nil)

// New wires an HTTP client; the default carries a 15s timeout.
func New(client *http.Client, logger *slog.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Scraper{client: client, logger: logger}
}

// FetchArticleText retrieves the page and extracts the article body.
// Failures never escape: they come back as a short diagnostic string so
// the item still flows through the pipeline.
func (s *Scraper) FetchArticleText(ctx context.Context, pageURL string) string {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("content fetch failed", "url", pageURL, "error", err)
		}
		return fmt.Sprintf("Error fetching content: %v", err)
	}

	return extractText(doc)
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	utf8data := data
	if enc, _, _ := charset.DetermineEncoding(data, resp.Header.Get("Content-Type")); enc != nil {
		if decoded, decErr := enc.NewDecoder().Bytes(data); decErr == nil {
			utf8data = decoded
		} else if !utf8.Valid(data) {
			return nil, fmt.Errorf("decode charset: %w", decErr)
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func extractText(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, header, aside, form, iframe, noscript").Each(func(_ int, sel *goquery.Selection) {
		sel.Remove()
	})

	body := findArticleBody(doc)
	if body == nil || body.Length() == 0 {
		return ErrNoContent
	}

	text := cleanText(blockText(body))
	if len(text) < minContentLength {
		return ErrShortContent
	}
	return text
}

// findArticleBody picks the primary content container: a semantic
// article tag first, then anything with a content-ish class, then the
// whole body as a last resort.
func findArticleBody(doc *goquery.Document) *goquery.Selection {
	if sel := doc.Find("article").First(); sel.Length() > 0 {
		return sel
	}

	var byClass *goquery.Selection
	doc.Find("[class]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		if contentClassExpr.MatchString(strings.ToLower(class)) {
			byClass = sel
			return false
		}
		return true
	})
	if byClass != nil {
		return byClass
	}

	return doc.Find("body").First()
}

// blockText renders the selection's text with newlines between block
// elements so paragraph structure survives extraction.
func blockText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Find("p, h1, h2, h3, h4, li, blockquote, pre, td, div").Each(func(_ int, block *goquery.Selection) {
		// Leaf blocks only: containers would duplicate their children's text.
		if block.Children().Filter("p, div, li, blockquote, h1, h2, h3, h4, pre, td").Length() > 0 {
			return
		}
		if text := strings.TrimSpace(block.Text()); text != "" {
			b.WriteString(text)
			b.WriteByte('\n')
		}
	})
	if b.Len() > 0 {
		return b.String()
	}
	return sel.Text()
}

// cleanText trims every line and drops whitespace-only ones, keeping
// single newlines as paragraph separators.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}
