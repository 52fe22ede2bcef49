package search

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/termscan/internal/config"
	"github.com/hyperjump/termscan/internal/models"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
)

// Finder cuts the passages that mention the term out of a document.
type Finder struct {
	matcher      *Matcher
	mode         string
	contextChars int
	tokenizer    *sentences.DefaultSentenceTokenizer
	logger       *zap.Logger // optional; when set, logs debug events
}

// FinderOption configures a Finder.
type FinderOption func(*Finder)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) FinderOption {
	return func(f *Finder) { f.logger = l }
}

// NewFinder builds a Finder from the search config. The English sentence model is
// loaded only for sentence mode.
func NewFinder(cfg *config.SearchConfig, opts ...FinderOption) (*Finder, error) {
	m, err := NewMatcher(cfg.Term, cfg.Variants, cfg.CaseSensitive, cfg.WholeWord)
	if err != nil {
		return nil, err
	}
	f := &Finder{matcher: m, mode: cfg.Mode, contextChars: cfg.ContextChars}
	switch f.mode {
	case config.ModeContext, config.ModeParagraph:
	case config.ModeSentence:
		tok, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			return nil, fmt.Errorf("load sentence model: %w", err)
		}
		f.tokenizer = tok
	default:
		return nil, fmt.Errorf("unknown search mode %q", f.mode)
	}
	if f.contextChars < 0 {
		f.contextChars = 0
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Matcher returns the matcher the finder searches with.
func (f *Finder) Matcher() *Matcher {
	return f.matcher
}

// Find returns the mentions of the term in doc, in document order. A passage that
// occurs twice on the same page is returned once.
func (f *Finder) Find(doc *models.Document) []models.Mention {
	var passages []passage
	switch f.mode {
	case config.ModeContext:
		passages = f.contextPassages(doc.Pages)
	case config.ModeParagraph:
		passages = paragraphPassages(doc.Pages)
	default:
		passages = f.sentencePassages(doc.Pages)
	}

	seen := make(map[string]bool)
	var out []models.Mention
	for _, p := range passages {
		text := collapse(p.text)
		if text == "" {
			continue
		}
		matches := f.matcher.Matches(text)
		if len(matches) == 0 {
			continue
		}
		key := fmt.Sprintf("%d\x00%s", p.page, text)
		if seen[key] {
			continue
		}
		seen[key] = true
		m := models.Mention{Page: p.page, Text: text, Matches: matches}
		if p.endPage > p.page {
			m.EndPage = p.endPage
		}
		out = append(out, m)
	}
	if f.logger != nil {
		f.logger.Debug("search done",
			zap.String("path", doc.Path),
			zap.String("mode", f.mode),
			zap.Int("candidates", len(passages)),
			zap.Int("mentions", len(out)))
	}
	return out
}

// passage is a candidate piece of text, the page it starts on and, when it runs past
// that page, the page it ends on.
type passage struct {
	page    int
	endPage int
	text    string
}

// contextPassages returns a window of contextChars bytes on each side of every match in
// the concatenated document text.
func (f *Finder) contextPassages(pages []models.Page) []passage {
	var b strings.Builder
	starts := make([]int, len(pages))
	for i, p := range pages {
		if i > 0 {
			b.WriteByte('\n')
		}
		starts[i] = b.Len()
		b.WriteString(p.Text)
	}
	text := b.String()

	var out []passage
	for _, sp := range f.matcher.FindAll(text) {
		lo := max(0, sp.Start-f.contextChars)
		hi := min(len(text), sp.End+f.contextChars)
		for lo > 0 && !utf8.RuneStart(text[lo]) {
			lo--
		}
		for hi < len(text) && !utf8.RuneStart(text[hi]) {
			hi++
		}
		out = append(out, passage{
			page:    pageAt(pages, starts, sp.Start),
			endPage: pageAt(pages, starts, hi-1),
			text:    text[lo:hi],
		})
	}
	return out
}

// pageAt returns the number of the last page whose text starts at or before offset.
func pageAt(pages []models.Page, starts []int, offset int) int {
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	return pages[max(i, 0)].Number
}

// sentencePassages splits every page into sentences. An unfinished last sentence is
// carried over to the next page and searched together with its first sentence; the
// joined sentence keeps the earlier page number.
func (f *Finder) sentencePassages(pages []models.Page) []passage {
	var out []passage
	var carry *passage
	for i, p := range pages {
		var sents []passage
		for _, s := range f.tokenizer.Tokenize(p.Text) {
			if t := collapse(s.Text); t != "" {
				sents = append(sents, passage{page: p.Number, text: t})
			}
		}
		if carry != nil {
			if len(sents) == 0 {
				continue
			}
			sents[0] = passage{page: carry.page, endPage: p.Number, text: carry.text + " " + sents[0].text}
			carry = nil
		}
		if n := len(sents); n > 0 && i < len(pages)-1 && !terminated(sents[n-1].text) {
			last := sents[n-1]
			carry = &last
			sents = sents[:n-1]
		}
		out = append(out, sents...)
	}
	if carry != nil {
		out = append(out, *carry)
	}
	return out
}

const closers = `"')]}’”»`

// terminated reports whether s ends a sentence.
func terminated(s string) bool {
	s = strings.TrimRight(s, closers+" ")
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return strings.ContainsRune(".!?:;…", r)
}

// paragraphPassages splits each page on blank lines. A page without blank lines is split
// after every line that ends a sentence.
func paragraphPassages(pages []models.Page) []passage {
	var out []passage
	for _, p := range pages {
		for _, para := range splitParagraphs(p.Text) {
			out = append(out, passage{page: p.Number, text: para})
		}
	}
	return out
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var paras []string
	var cur []string
	blank := false
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			blank = true
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	if blank || len(paras) != 1 {
		return paras
	}

	// No blank lines at all: fall back to sentence-ending lines.
	paras = nil
	for _, line := range strings.Split(text, "\n") {
		cur = append(cur, line)
		if terminated(strings.TrimSpace(line)) {
			flush()
		}
	}
	flush()
	return paras
}
