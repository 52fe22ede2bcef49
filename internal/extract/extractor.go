// Package extract provides page text and positioned text lines from PDF documents.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/termscan/internal/models"
	"go.uber.org/zap"
)

// ErrNotPDF is returned for files that do not carry a PDF header.
var ErrNotPDF = errors.New("not a PDF file")

// pdfHeader is the signature every PDF file starts with.
var pdfHeader = []byte("%PDF-")

// Extractor extracts page text from PDF files.
type Extractor struct {
	logger *zap.Logger // optional; when set, logs debug events
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets a logger for debug output (pages read, empty pages, etc.).
func WithLogger(l *zap.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor returns a new Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads the PDF at path and returns its text, one entry per page.
// Returns ErrNotPDF (wrapped) if the content is not a PDF, or an error from the PDF
// library if the file cannot be parsed.
func (e *Extractor) Extract(path string) (*models.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	doc, err := e.ExtractBytes(content)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	if e.logger != nil {
		e.logger.Debug("extracted pdf",
			zap.String("path", filepath.Base(path)),
			zap.Int("pages", doc.PageCount()),
			zap.Int("empty_pages", countEmpty(doc.Pages)))
	}
	return doc, nil
}

// ExtractBytes extracts page text from PDF content.
func (e *Extractor) ExtractBytes(content []byte) (*models.Document, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(content, "\x00\t\r\n "), pdfHeader) {
		return nil, ErrNotPDF
	}
	pages, info, err := extractPDF(content)
	if err != nil {
		return nil, err
	}
	return &models.Document{Pages: pages, Info: info}, nil
}

// Lines returns the positioned text lines of the requested 1-based pages of the PDF at
// path. Pages outside the document are ignored.
func (e *Extractor) Lines(path string, pages []int) (map[int][]models.TextLine, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(content, "\x00\t\r\n "), pdfHeader) {
		return nil, ErrNotPDF
	}
	return extractLines(content, pages)
}

func countEmpty(pages []models.Page) int {
	n := 0
	for _, p := range pages {
		if strings.TrimSpace(p.Text) == "" {
			n++
		}
	}
	return n
}
