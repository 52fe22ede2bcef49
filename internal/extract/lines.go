package extract

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/termscan/internal/models"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

const (
	// lineNudge is the vertical distance, as a fraction of the font size, within which
	// glyphs belong to the same line.
	lineNudge = 0.3
	// spaceGap is the horizontal gap, as a fraction of the font size, that reads as a space.
	spaceGap = 0.15
	// ascent and descent approximate the glyph box above and below the baseline.
	ascent  = 0.8
	descent = 0.2
	// fallbackFontSize is used for glyphs whose size could not be determined.
	fallbackFontSize = 10.0
)

// glyph is a single positioned string from a content stream.
type glyph struct {
	s    string
	x, y float64
	w    float64
	size float64
}

func extractLines(content []byte, pages []int) (out map[int][]models.TextLine, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("parse PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	out = make(map[int][]models.TextLine, len(pages))
	for _, n := range pages {
		if n < 1 || n > r.NumPage() {
			continue
		}
		if _, done := out[n]; done {
			continue
		}
		page := r.Page(n)
		if page.V.IsNull() {
			out[n] = nil
			continue
		}
		out[n] = groupLines(toGlyphs(page.Content().Text))
	}
	return out, nil
}

func toGlyphs(texts []pdf.Text) []glyph {
	glyphs := make([]glyph, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = fallbackFontSize
		}
		w := t.W
		if w <= 0 {
			w = size / 2
		}
		glyphs = append(glyphs, glyph{s: norm.NFKC.String(t.S), x: t.X, y: t.Y, w: w, size: size})
	}
	return glyphs
}

// groupLines sorts glyphs top to bottom, groups them into lines, and orders each line
// left to right. A space is inserted wherever the gap between neighbours is wide enough.
func groupLines(glyphs []glyph) []models.TextLine {
	if len(glyphs) == 0 {
		return nil
	}
	sorted := make([]glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].y > sorted[j].y })

	var lines []models.TextLine
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && math.Abs(sorted[i].y-sorted[start].y) <= sorted[start].size*lineNudge {
			continue
		}
		lines = append(lines, buildLine(sorted[start:i]))
		start = i
	}
	return lines
}

func buildLine(glyphs []glyph) models.TextLine {
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].x < glyphs[j].x })
	var b strings.Builder
	boxes := make([]models.Rect, 0, len(glyphs))
	for i, g := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			gapStart := prev.x + prev.w
			if g.x-gapStart > spaceGap*g.size {
				b.WriteByte(' ')
				boxes = append(boxes, models.Rect{
					LLX: gapStart, LLY: g.y - descent*g.size,
					URX: g.x, URY: g.y + ascent*g.size,
				})
			}
		}
		n := utf8.RuneCountInString(g.s)
		step := g.w / float64(n)
		k := 0
		for _, r := range g.s {
			b.WriteRune(r)
			boxes = append(boxes, models.Rect{
				LLX: g.x + float64(k)*step, LLY: g.y - descent*g.size,
				URX: g.x + float64(k+1)*step, URY: g.y + ascent*g.size,
			})
			k++
		}
	}
	return models.TextLine{Text: b.String(), Boxes: boxes}
}
