package highlight

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/termscan/internal/extract"
	"github.com/hyperjump/termscan/internal/models"
	"github.com/hyperjump/termscan/internal/pdftest"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// line builds a TextLine with 6pt wide boxes starting at x=0 on the given baseline.
func line(text string, baseline float64) models.TextLine {
	l := models.TextLine{Text: text}
	for i := range []rune(text) {
		x := float64(i) * 6
		l.Boxes = append(l.Boxes, models.Rect{LLX: x, LLY: baseline - 2, URX: x + 6, URY: baseline + 10})
	}
	return l
}

func TestLocate(t *testing.T) {
	lines := []models.TextLine{
		line("as Coase argued, the Coase", 700),
		line("theorem holds for coase.", 686),
	}
	m := models.Mention{Page: 2, Matches: []string{"Coase", "Coase theorem", "Coase"}}
	marks := Locate(2, lines, m)
	if len(marks) != 3 {
		t.Fatalf("got %d marks, want 3: %+v", len(marks), marks)
	}
	// Longest match first, spanning two lines.
	if marks[0].Text != "Coase theorem" || len(marks[0].Rects) != 2 {
		t.Fatalf("mark 0 = %+v", marks[0])
	}
	if marks[0].Rects[0].LLX != 21*6 || marks[0].Rects[1].URX != 7*6 {
		t.Errorf("mark 0 rects = %+v", marks[0].Rects)
	}
	if marks[1].Rects[0].LLX != 3*6 || marks[1].Rects[0].URX != 8*6 {
		t.Errorf("mark 1 rects = %+v", marks[1].Rects)
	}
	if marks[2].Rects[0].LLX != 18*6 || marks[2].Rects[0].URY != 696 {
		t.Errorf("lowercase coase on line 2 not found: %+v", marks[2].Rects)
	}
	for _, mk := range marks {
		if mk.Page != 2 {
			t.Errorf("page = %d", mk.Page)
		}
	}
	b := marks[0].Bounds()
	if b.LLX != 0 || b.URX != 26*6 || b.LLY != 684 || b.URY != 710 {
		t.Errorf("Bounds = %+v", b)
	}
}

func TestMarks(t *testing.T) {
	lines := map[int][]models.TextLine{
		1: {line("Coase here", 700)},
		3: {line("and Coase there", 700), line("Coase again", 680)},
	}
	mentions := []models.Mention{
		{Page: 3, Matches: []string{"Coase"}},
		{Page: 1, Matches: []string{"Coase"}},
		{Page: 3, Matches: []string{"Coase"}},
		{Page: 9, Matches: []string{"Coase"}},
	}
	marks := Marks(lines, mentions)
	if len(marks) != 3 {
		t.Fatalf("got %d marks, want 3", len(marks))
	}
	if marks[0].Page != 1 || marks[1].Page != 3 || marks[2].Page != 3 {
		t.Errorf("pages = %d %d %d", marks[0].Page, marks[1].Page, marks[2].Page)
	}
	if marks[1].Rects[0].URY < marks[2].Rects[0].URY {
		t.Error("marks on a page should run top to bottom")
	}
}

func TestMarks_passageAcrossPages(t *testing.T) {
	lines := map[int][]models.TextLine{
		4: {line("The theorem of", 100)},
		5: {line("Coase is well known.", 700)},
	}
	marks := Marks(lines, []models.Mention{{Page: 4, EndPage: 5, Matches: []string{"Coase"}}})
	if len(marks) != 1 || marks[0].Page != 5 {
		t.Fatalf("marks = %+v, want one on page 5", marks)
	}
	if marks[0].Rects[0].LLX != 0 || marks[0].Rects[0].URX != 5*6 {
		t.Errorf("rects = %+v", marks[0].Rects)
	}
}

func TestContents(t *testing.T) {
	for _, s := range []string{"Coase", `Coase’s (1960) \ result`, "Théorème de Coase"} {
		lit, err := contents(s)
		if err != nil {
			t.Fatalf("contents(%q): %v", s, err)
		}
		got, err := types.StringLiteralToString(lit)
		if err != nil {
			t.Fatalf("decode %q: %v", s, err)
		}
		if got != s {
			t.Errorf("round trip = %q, want %q", got, s)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("/pdfs/paper.pdf", "_highlighted"); got != "/pdfs/paper_highlighted.pdf" {
		t.Errorf("OutputPath = %q", got)
	}
}

func writePDF(t *testing.T, doc pdftest.Doc) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper.pdf")
	if err := doc.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func annotCount(t *testing.T, path string, page int) int {
	t.Helper()
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		t.Fatalf("read annotated PDF: %v", err)
	}
	d, _, _, err := ctx.PageDict(page, false)
	if err != nil {
		t.Fatal(err)
	}
	o, found := d.Find("Annots")
	if !found {
		return 0
	}
	arr, err := ctx.DereferenceArray(o)
	if err != nil {
		t.Fatal(err)
	}
	for _, ref := range arr {
		a, err := ctx.DereferenceDict(ref)
		if err != nil {
			t.Fatal(err)
		}
		if st := a.NameEntry("Subtype"); st == nil || *st != "Highlight" {
			t.Errorf("annotation subtype = %v", st)
		}
		if q, ok := a.Find("QuadPoints"); !ok || len(q.(types.Array))%8 != 0 {
			t.Errorf("bad QuadPoints: %v", q)
		}
	}
	return len(arr)
}

func TestAnnotate(t *testing.T) {
	src := writePDF(t, pdftest.Doc{Pages: [][]string{
		{"Coase argued that", "bargaining works"},
		{"nothing here"},
		{"the Coase theorem and Coase"},
	}})
	lines, err := extract.NewExtractor().Lines(src, []int{1, 3})
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	marks := Marks(lines, []models.Mention{
		{Page: 1, Matches: []string{"Coase"}},
		{Page: 3, Matches: []string{"Coase theorem", "Coase"}},
	})
	if len(marks) != 3 {
		t.Fatalf("got %d marks, want 3: %+v", len(marks), marks)
	}
	first := marks[0].Rects[0]
	if math.Abs(first.LLX-pdftest.Left) > 0.01 {
		t.Errorf("first mark starts at x=%v, want %v", first.LLX, pdftest.Left)
	}

	dst := OutputPath(src, "_highlighted")
	n, err := NewAnnotator([]float64{1, 1, 0}).Annotate(src, dst, marks)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if n != 3 {
		t.Errorf("annotations = %d, want 3", n)
	}
	if got := annotCount(t, dst, 1); got != 1 {
		t.Errorf("page 1 annotations = %d, want 1", got)
	}
	if got := annotCount(t, dst, 2); got != 0 {
		t.Errorf("page 2 annotations = %d, want 0", got)
	}
	if got := annotCount(t, dst, 3); got != 2 {
		t.Errorf("page 3 annotations = %d, want 2", got)
	}
	if got := annotCount(t, src, 1); got != 0 {
		t.Errorf("source must stay untouched, has %d annotations", got)
	}
}

func TestAnnotate_inPlaceRepeated(t *testing.T) {
	src := writePDF(t, pdftest.Doc{Pages: [][]string{{"Coase"}}})
	first := Mark{Page: 1, Text: "Coase", Rects: []models.Rect{{LLX: 72, LLY: 717, URX: 102, URY: 730}}}
	second := Mark{Page: 1, Text: "Coase", Rects: []models.Rect{{LLX: 72, LLY: 600, URX: 102, URY: 613}}}
	a := NewAnnotator(nil)
	tests := []struct {
		marks []Mark
		added int
		total int
	}{
		{[]Mark{first}, 1, 1},
		{[]Mark{first}, 0, 1},
		{[]Mark{first, second}, 1, 2},
	}
	for i, tt := range tests {
		n, err := a.Annotate(src, src, tt.marks)
		if err != nil {
			t.Fatalf("Annotate #%d: %v", i+1, err)
		}
		if n != tt.added {
			t.Errorf("run %d added %d annotations, want %d", i+1, n, tt.added)
		}
		if got := annotCount(t, src, 1); got != tt.total {
			t.Errorf("run %d: page has %d annotations, want %d", i+1, got, tt.total)
		}
	}
	entries, err := os.ReadDir(filepath.Dir(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestAnnotate_noMarks(t *testing.T) {
	src := writePDF(t, pdftest.Doc{Pages: [][]string{{"nothing"}}})
	dst := OutputPath(src, "_highlighted")
	a := NewAnnotator(nil)
	for _, marks := range [][]Mark{nil, {{Page: 5, Rects: []models.Rect{{}}}}} {
		n, err := a.Annotate(src, dst, marks)
		if err != nil || n != 0 {
			t.Errorf("Annotate = %d, %v", n, err)
		}
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("no output PDF expected without marks")
	}
}
