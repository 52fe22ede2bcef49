package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hyperjump/termscan/internal/models"
	"github.com/ledongthuc/pdf"
)

// infoKeys are the document information entries copied into models.Document.Info.
var infoKeys = []string{"Title", "Author", "Subject", "Keywords", "Creator", "Producer"}

func extractPDF(content []byte) (pages []models.Page, info map[string]string, err error) {
	// The PDF library panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			pages, info = nil, nil
			err = fmt.Errorf("parse PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, nil, fmt.Errorf("open PDF: %w", err)
	}
	numPages := r.NumPage()
	pages = make([]models.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, models.Page{Number: i})
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, models.Page{Number: i, Text: Normalize(text)})
	}
	return pages, readInfo(r), nil
}

func readInfo(r *pdf.Reader) map[string]string {
	dict := r.Trailer().Key("Info")
	if dict.IsNull() {
		return nil
	}
	info := make(map[string]string)
	for _, k := range infoKeys {
		v := dict.Key(k)
		if v.Kind() != pdf.String {
			continue
		}
		if s := strings.TrimSpace(Normalize(v.Text())); s != "" {
			info[k] = s
		}
	}
	if len(info) == 0 {
		return nil
	}
	return info
}
