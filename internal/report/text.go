// Package report writes the per-PDF text reports and the run summary workbook.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/termscan/internal/config"
	"github.com/hyperjump/termscan/internal/models"
	"go.uber.org/zap"
)

// TextWriter writes one plain-text report per PDF.
type TextWriter struct {
	dir       string
	suffix    string
	separator string
	term      string
	logger    *zap.Logger // optional; when set, logs debug events
}

// Option configures a TextWriter.
type Option func(*TextWriter)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(w *TextWriter) { w.logger = l }
}

// NewTextWriter returns a writer for the given output settings. term is the label used
// in the mention count line.
func NewTextWriter(cfg *config.OutputConfig, term string, opts ...Option) *TextWriter {
	w := &TextWriter{
		dir:       cfg.Directory,
		suffix:    cfg.ReportSuffix,
		separator: cfg.Separator,
		term:      term,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the report path for pdfPath: the PDF stem plus the suffix, in the output
// directory or next to the PDF when none is set.
func (w *TextWriter) Path(pdfPath string) string {
	base := filepath.Base(pdfPath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + w.suffix
	if w.dir == "" {
		return filepath.Join(filepath.Dir(pdfPath), name)
	}
	return filepath.Join(w.dir, name)
}

// Write renders res to its report file and returns the path written.
func (w *TextWriter) Write(res *models.FileResult) (string, error) {
	path := w.Path(res.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if err := w.Render(f, res); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	if w.logger != nil {
		w.logger.Debug("report written", zap.String("path", path), zap.Int("mentions", len(res.Mentions)))
	}
	return path, nil
}

// Render writes the report for res to out.
func (w *TextWriter) Render(out io.Writer, res *models.FileResult) error {
	b := bufio.NewWriter(out)
	fmt.Fprintf(b, "File: %s\n", filepath.Base(res.Path))
	if rec := res.Record; rec != nil {
		if rec.Title != "" {
			fmt.Fprintf(b, "Title: %s\n", rec.Title)
		}
		if rec.Author != "" {
			fmt.Fprintf(b, "Author: %s\n", rec.Author)
		}
		if rec.Year != "" {
			fmt.Fprintf(b, "Year: %s\n", rec.Year)
		}
	}
	b.WriteString("\n")

	if res.Author != nil {
		b.WriteString("Author information:\n")
		if res.Author.Empty() {
			b.WriteString("(none found)\n")
		}
		for _, l := range res.Author.Lines {
			fmt.Fprintf(b, "%s\n", l)
		}
		for _, e := range res.Author.Emails {
			fmt.Fprintf(b, "Email: %s\n", e)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(b, "Mentions of %q: %d\n\n", w.term, len(res.Mentions))
	for _, m := range res.Mentions {
		fmt.Fprintf(b, "[Page %d]\n%s\n\n%s\n\n", m.Page, m.Text, w.separator)
	}
	if err := b.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
