// Package search finds the passages of a document that mention the configured term.
package search

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/hyperjump/termscan/internal/models"
)

// ErrEmptyTerm is returned when neither a term nor a variant is given.
var ErrEmptyTerm = errors.New("search term is empty")

// Matcher matches a term and its variants in text.
type Matcher struct {
	re       *regexp.Regexp
	patterns []string
}

// NewMatcher compiles term and variants into one alternation. Longer alternatives are
// tried first so "Coase theorem" wins over "Coase" at the same position. Spaces in an
// alternative match any run of whitespace, including line breaks, and an ASCII apostrophe
// also matches the typographic one.
func NewMatcher(term string, variants []string, caseSensitive, wholeWord bool) (*Matcher, error) {
	seen := make(map[string]bool)
	var patterns []string
	for _, p := range append([]string{term}, variants...) {
		p = strings.Join(strings.Fields(p), " ")
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		patterns = append(patterns, p)
	}
	if len(patterns) == 0 {
		return nil, ErrEmptyTerm
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return len(patterns[i]) > len(patterns[j])
	})

	alts := make([]string, len(patterns))
	for i, p := range patterns {
		q := regexp.QuoteMeta(p)
		q = strings.ReplaceAll(q, " ", `\s+`)
		q = strings.ReplaceAll(q, "'", `['’]`)
		alts[i] = q
	}
	expr := "(?:" + strings.Join(alts, "|") + ")"
	if wholeWord {
		expr = `\b` + expr + `\b`
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Matcher{re: re, patterns: patterns}, nil
}

// Patterns returns the alternatives in match priority order.
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

// FindAll returns the byte spans of all non-overlapping matches in text.
func (m *Matcher) FindAll(text string) []models.Span {
	locs := m.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]models.Span, len(locs))
	for i, loc := range locs {
		spans[i] = models.Span{Start: loc[0], End: loc[1]}
	}
	return spans
}

// Match reports whether text contains a match.
func (m *Matcher) Match(text string) bool {
	return m.re.MatchString(text)
}

// Matches returns the matched substrings of text in order, with whitespace collapsed.
func (m *Matcher) Matches(text string) []string {
	found := m.re.FindAllString(text, -1)
	for i, s := range found {
		found[i] = collapse(s)
	}
	return found
}

// collapse replaces every run of whitespace with a single space and trims the ends.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
