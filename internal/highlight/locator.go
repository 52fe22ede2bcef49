// Package highlight locates matched text on PDF pages and writes highlight annotations.
package highlight

import (
	"sort"
	"unicode"

	"github.com/hyperjump/termscan/internal/models"
)

// Mark is one occurrence of a matched string: a rectangle per line it spans.
type Mark struct {
	Page  int
	Text  string
	Rects []models.Rect
}

// Bounds returns the union of the mark's rectangles.
func (m Mark) Bounds() models.Rect {
	r := m.Rects[0]
	for _, o := range m.Rects[1:] {
		r = r.Union(o)
	}
	return r
}

// folded is a page's text with whitespace removed and case folded, keeping the
// origin of every rune.
type folded struct {
	runes []rune
	line  []int
	pos   []int
}

func foldLines(lines []models.TextLine) *folded {
	f := &folded{}
	for li, l := range lines {
		ri := 0
		for _, r := range l.Text {
			if !unicode.IsSpace(r) && ri < len(l.Boxes) {
				f.runes = append(f.runes, unicode.ToLower(r))
				f.line = append(f.line, li)
				f.pos = append(f.pos, ri)
			}
			ri++
		}
	}
	return f
}

func foldString(s string) []rune {
	var out []rune
	for _, r := range s {
		if !unicode.IsSpace(r) {
			out = append(out, unicode.ToLower(r))
		}
	}
	return out
}

// Locate returns a mark for every occurrence on the page of each distinct string in
// mention.Matches. Comparison ignores case and whitespace, so a match broken across
// lines yields one mark with a rectangle per line. Longer strings are placed first and
// shorter ones never overlap them.
func Locate(page int, lines []models.TextLine, mention models.Mention) []Mark {
	f := foldLines(lines)
	type needle struct {
		text  string
		runes []rune
	}
	var needles []needle
	seen := make(map[string]bool)
	for _, m := range mention.Matches {
		n := foldString(m)
		if len(n) == 0 || seen[string(n)] {
			continue
		}
		seen[string(n)] = true
		needles = append(needles, needle{text: m, runes: n})
	}
	sort.SliceStable(needles, func(i, j int) bool { return len(needles[i].runes) > len(needles[j].runes) })

	covered := make([]bool, len(f.runes))
	var marks []Mark
	for _, n := range needles {
		for i := 0; i+len(n.runes) <= len(f.runes); i++ {
			if !hasPrefix(f.runes[i:], n.runes) || anyCovered(covered[i:i+len(n.runes)]) {
				continue
			}
			for j := i; j < i+len(n.runes); j++ {
				covered[j] = true
			}
			marks = append(marks, Mark{Page: page, Text: n.text, Rects: f.rects(lines, i, i+len(n.runes))})
			i += len(n.runes) - 1
		}
	}
	return marks
}

func anyCovered(c []bool) bool {
	for _, v := range c {
		if v {
			return true
		}
	}
	return false
}

func hasPrefix(s, prefix []rune) bool {
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}

// rects returns one rectangle per line covered by folded runes [from, to).
func (f *folded) rects(lines []models.TextLine, from, to int) []models.Rect {
	var out []models.Rect
	cur := -1
	for i := from; i < to; i++ {
		box := lines[f.line[i]].Boxes[f.pos[i]]
		if f.line[i] != cur {
			cur = f.line[i]
			out = append(out, box)
			continue
		}
		out[len(out)-1] = out[len(out)-1].Union(box)
	}
	return out
}

// Marks locates the matches of all mentions, page by page. A passage that runs across
// a page break is searched on every page it covers. Matches of passages that share a
// page are located together so each occurrence is marked once. Pages missing from lines
// are skipped. The result is ordered by page, then top to bottom.
func Marks(lines map[int][]models.TextLine, mentions []models.Mention) []Mark {
	var pages []int
	byPage := make(map[int]*models.Mention)
	for _, m := range mentions {
		for p := m.Page; p <= m.LastPage(); p++ {
			if _, ok := lines[p]; !ok {
				continue
			}
			pm, ok := byPage[p]
			if !ok {
				pm = &models.Mention{Page: p}
				byPage[p] = pm
				pages = append(pages, p)
			}
			pm.Matches = append(pm.Matches, m.Matches...)
		}
	}
	sort.Ints(pages)

	var out []Mark
	for _, p := range pages {
		marks := Locate(p, lines[p], *byPage[p])
		sort.SliceStable(marks, func(i, j int) bool {
			a, b := marks[i].Rects[0], marks[j].Rects[0]
			if a.URY != b.URY {
				return a.URY > b.URY
			}
			return a.LLX < b.LLX
		})
		out = append(out, marks...)
	}
	return out
}
