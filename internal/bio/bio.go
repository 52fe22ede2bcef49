// Package bio finds author biography lines (affiliation footnotes, "X is a Professor"
// sentences, contact emails) on the first pages of a document.
package bio

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/termscan/internal/models"
	"go.uber.org/zap"
)

// Keywords mark a footnote line as an affiliation.
var Keywords = []string{
	"Professor", "Lecturer", "Fellow", "University", "School of Law", "College",
	"Institute", "J.D.", "Ph.D.", "LL.M.", "Esq.",
}

var (
	// Digits cover superscripts after NFKC folding.
	footnoteMarker = regexp.MustCompile(`^(?:[*†‡]+|\d{1,2}(?:\s|[\p{Lu}]))`)
	bioSentence    = regexp.MustCompile(
		`(?:\p{Lu}[\p{L}.'’-]*\s+){1,4}is\s+(?:a|an|the)\s+[^.]{0,150}?\b(?:Professor|Lecturer|Fellow|Dean|Director|Researcher|Candidate)\b[^.]*\.`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// Extractor applies the biography heuristics.
type Extractor struct {
	maxPages int
	logger   *zap.Logger // optional; when set, logs debug events
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor returns an Extractor that looks at the first maxPages pages (at least one).
func NewExtractor(maxPages int, opts ...Option) *Extractor {
	e := &Extractor{maxPages: max(maxPages, 1)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the biography lines and emails found in doc. The result is never nil.
func (e *Extractor) Extract(doc *models.Document) *models.AuthorInfo {
	info := &models.AuthorInfo{}
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.Join(strings.Fields(s), " ")
		if s != "" && !seen[s] {
			seen[s] = true
			info.Lines = append(info.Lines, s)
		}
	}

	pages := doc.Pages
	if len(pages) > e.maxPages {
		pages = pages[:e.maxPages]
	}
	for _, p := range pages {
		for _, line := range strings.Split(p.Text, "\n") {
			if l, ok := footnote(line); ok {
				add(l)
			}
		}
		for _, s := range bioSentence.FindAllString(strings.Join(strings.Fields(p.Text), " "), -1) {
			add(s)
		}
	}
	if len(doc.Pages) > 0 {
		info.Emails = emails(doc.Pages[0].Text)
	}
	if e.logger != nil {
		e.logger.Debug("bio extracted",
			zap.String("path", doc.Path),
			zap.Int("lines", len(info.Lines)),
			zap.Int("emails", len(info.Emails)))
	}
	return info
}

// footnote returns line without its marker when it is an affiliation footnote.
func footnote(line string) (string, bool) {
	line = strings.TrimSpace(line)
	loc := footnoteMarker.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	rest := line[loc[1]:]
	// The capital letter after a bare footnote number belongs to the text.
	if r, size := utf8.DecodeLastRuneInString(line[:loc[1]]); unicode.IsUpper(r) {
		rest = line[loc[1]-size:]
	}
	rest = strings.TrimSpace(rest)
	if !hasKeyword(rest) {
		return "", false
	}
	return rest, true
}

func hasKeyword(s string) bool {
	for _, k := range Keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// emails returns the distinct lowercase email addresses in text, in order.
func emails(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range emailPattern.FindAllString(text, -1) {
		m = strings.ToLower(strings.TrimRight(m, "."))
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
