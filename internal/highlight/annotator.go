package highlight

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperjump/termscan/internal/models"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"
)

// Author is written to the /T entry of every annotation.
const Author = "termscan"

func init() {
	// No pdfcpu config directory in the user's home.
	model.ConfigPath = "disable"
}

// Annotator writes highlight annotations into PDFs with pdfcpu.
type Annotator struct {
	color  []float64
	logger *zap.Logger // optional; when set, logs debug events
}

// AnnotatorOption configures an Annotator.
type AnnotatorOption func(*Annotator)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) AnnotatorOption {
	return func(a *Annotator) { a.logger = l }
}

// NewAnnotator returns an Annotator drawing in the given RGB colour (components in [0, 1]).
func NewAnnotator(color []float64, opts ...AnnotatorOption) *Annotator {
	if len(color) != 3 {
		color = []float64{1, 1, 0}
	}
	a := &Annotator{color: color}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OutputPath returns the sibling path "<dir>/<stem><suffix>.pdf" for src.
func OutputPath(src, suffix string) string {
	ext := filepath.Ext(src)
	return strings.TrimSuffix(src, ext) + suffix + ext
}

// Annotate adds a highlight annotation for every mark to the PDF at src and writes the
// result to dst, which may equal src. It returns the number of annotations written.
// With no marks on existing pages nothing is written.
func (a *Annotator) Annotate(src, dst string, marks []Mark) (int, error) {
	if len(marks) == 0 {
		return 0, nil
	}
	ctx, err := api.ReadContextFile(src)
	if err != nil {
		return 0, fmt.Errorf("read PDF: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return 0, fmt.Errorf("validate PDF: %w", err)
	}

	added := 0
	for _, m := range marks {
		if m.Page < 1 || m.Page > ctx.PageCount || len(m.Rects) == 0 {
			continue
		}
		ok, err := a.addHighlight(ctx, m)
		if err != nil {
			return 0, fmt.Errorf("page %d: %w", m.Page, err)
		}
		if ok {
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}

	if err := writeAtomic(ctx, dst); err != nil {
		return 0, err
	}
	if a.logger != nil {
		a.logger.Debug("highlights written",
			zap.String("src", src),
			zap.String("dst", dst),
			zap.Int("annotations", added))
	}
	return added, nil
}

// addHighlight appends a highlight for m to its page. A mark already highlighted by an
// earlier run, same author and same rectangle, is left alone and reported as not added.
func (a *Annotator) addHighlight(ctx *model.Context, m Mark) (bool, error) {
	pageDict, pageRef, _, err := ctx.PageDict(m.Page, false)
	if err != nil {
		return false, err
	}
	if pageDict == nil {
		return false, fmt.Errorf("no page dictionary")
	}

	var annots types.Array
	if o, found := pageDict.Find("Annots"); found {
		if annots, err = ctx.DereferenceArray(o); err != nil {
			return false, fmt.Errorf("page annotations: %w", err)
		}
	}
	b := m.Bounds()
	for _, o := range annots {
		d, err := ctx.DereferenceDict(o)
		if err != nil || d == nil {
			continue
		}
		if ownHighlight(d) && sameRect(d.ArrayEntry("Rect"), b) {
			return false, nil
		}
	}

	quads := make([]float64, 0, 8*len(m.Rects))
	for _, r := range m.Rects {
		quads = append(quads, r.LLX, r.URY, r.URX, r.URY, r.LLX, r.LLY, r.URX, r.LLY)
	}
	text, err := contents(m.Text)
	if err != nil {
		return false, err
	}
	annot := types.Dict{
		"Type":       types.Name("Annot"),
		"Subtype":    types.Name("Highlight"),
		"Rect":       types.NewNumberArray(b.LLX, b.LLY, b.URX, b.URY),
		"QuadPoints": types.NewNumberArray(quads...),
		"C":          types.NewNumberArray(a.color...),
		"F":          types.Integer(4),
		"Contents":   text,
		"T":          types.StringLiteral(Author),
		"NM":         types.StringLiteral(uuid.NewString()),
	}
	if pageRef != nil {
		annot["P"] = *pageRef
	}
	ref, err := ctx.IndRefForNewObject(annot)
	if err != nil {
		return false, err
	}
	pageDict.Update("Annots", append(annots, *ref))
	return true, nil
}

func ownHighlight(d types.Dict) bool {
	if st := d.NameEntry("Subtype"); st == nil || *st != "Highlight" {
		return false
	}
	t, ok := d["T"].(types.StringLiteral)
	return ok && string(t) == Author
}

// sameRect reports whether arr holds r, to a hundredth of a point.
func sameRect(arr types.Array, r models.Rect) bool {
	if len(arr) != 4 {
		return false
	}
	want := []float64{r.LLX, r.LLY, r.URX, r.URY}
	for i, o := range arr {
		var v float64
		switch n := o.(type) {
		case types.Float:
			v = float64(n)
		case types.Integer:
			v = float64(n)
		default:
			return false
		}
		if math.Abs(v-want[i]) > 0.01 {
			return false
		}
	}
	return true
}

// contents encodes s as a UTF-16 PDF text string, escaped for a literal.
func contents(s string) (types.StringLiteral, error) {
	esc, err := types.EscapedUTF16String(s)
	if err != nil {
		return "", fmt.Errorf("encode contents: %w", err)
	}
	return types.StringLiteral(*esc), nil
}

// writeAtomic writes ctx to a temporary file next to dst and renames it into place, so
// an in-place update never leaves a truncated PDF behind.
func writeAtomic(ctx *model.Context, dst string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	tmp.Close()
	if err := api.WriteContextFile(ctx, name); err != nil {
		os.Remove(name)
		return fmt.Errorf("write PDF: %w", err)
	}
	if err := os.Rename(name, dst); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename PDF: %w", err)
	}
	return nil
}
