package analyzer

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// Thresholds for the technical-vs-commercial decision. Commercial
// phrasing is tolerated as long as the technical vocabulary shows up:
// only clearly-commercial, barely-technical text is rejected.
const (
	commercialRejectAbove = 2
	technicalKeepBelow    = 2
)

var technicalTerms = []string{
	"vulnerability", "exploit", "cve", "patch", "firmware", "backdoor",
	"remote", "execution", "buffer", "overflow", "injection", "xss",
	"zero-day", "malware", "ransomware", "attack", "breach", "protocol",
	"mqtt", "tcp", "udp", "http", "api", "iot", "security", "botnet",
}

var commercialTerms = []string{
	"buy", "price", "discount", "sale", "offer", "deal", "shop", "store",
	"subscription", "coupon", "limited", "shipping", "black friday",
	"cyber monday", "best", "top", "review", "rating",
}

// Function words skipped before scoring.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "a": {}, "for": {}, "is": {},
	"on": {}, "with": {}, "as": {}, "by": {}, "at": {}, "from": {}, "that": {},
	"this": {}, "it": {}, "an": {}, "be": {}, "or": {}, "are": {}, "was": {},
	"will": {}, "has": {}, "have": {}, "had": {}, "but": {}, "not": {}, "your": {},
	"you": {}, "we": {}, "our": {}, "its": {}, "their": {}, "new": {}, "now": {},
}

// LexiconClassifier scores text against fixed technical and commercial
// vocabularies. Both the vocabularies and the incoming tokens are
// reduced to their stems so inflected forms ("vulnerabilities") hit the
// same bucket as their root.
type LexiconClassifier struct {
	technical         map[string]struct{}
	commercial        map[string]struct{}
	commercialPhrases []string
}

// NewLexiconClassifier stems the vocabularies once up front.
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{
		technical:         stemSet(technicalTerms),
		commercial:        stemSet(commercialTerms),
		commercialPhrases: phrases(commercialTerms),
	}
}

// IsTechnical reports whether the text reads as technical security
// content. It rejects only when the commercial score is high and the
// technical score is low; everything else passes.
func (c *LexiconClassifier) IsTechnical(text string) bool {
	techScore, commercialScore := c.score(text)
	return !(commercialScore > commercialRejectAbove && techScore < technicalKeepBelow)
}

func (c *LexiconClassifier) score(text string) (technical, commercial int) {
	for _, token := range tokenize(text) {
		stem := english.Stem(token, false)
		if _, ok := c.technical[stem]; ok {
			technical++
			continue
		}
		if _, ok := c.commercial[stem]; ok {
			commercial++
		}
	}

	lower := strings.ToLower(text)
	for _, phrase := range c.commercialPhrases {
		commercial += strings.Count(lower, phrase)
	}

	return technical, commercial
}

// Passthrough accepts everything. It stands in for the lexicon stage
// when semantic filtering is disabled, leaving the keyword gate as the
// only filter.
type Passthrough struct{}

// IsTechnical always reports true.
func (Passthrough) IsTechnical(string) bool { return true }

func stemSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		// Multi-word entries ("black friday") cannot match single tokens;
		// keeping their pieces would poison the count ("cyber" alone is
		// not commercial), so they are scored as phrases in score().
		if strings.ContainsRune(term, ' ') {
			continue
		}
		set[english.Stem(strings.ToLower(term), false)] = struct{}{}
	}
	return set
}

func phrases(terms []string) []string {
	var out []string
	for _, term := range terms {
		if strings.ContainsRune(term, ' ') {
			out = append(out, strings.ToLower(term))
		}
	}
	return out
}

func tokenize(text string) []string {
	split := func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsNumber(r) }

	var tokens []string
	for _, word := range strings.FieldsFunc(strings.ToLower(text), split) {
		if _, stop := stopwords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
