// Package models defines core data structures for documents, mentions, and scan results.
package models

// Document is the extracted text of one PDF, one entry per page.
type Document struct {
	Path  string `json:"path"`
	Pages []Page `json:"pages"`
	// Info holds the PDF /Info dictionary entries that were present (Title, Author, ...).
	Info map[string]string `json:"info,omitempty"`
}

// Page is the text of one page. Number is 1-based.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Rect is a rectangle in PDF user space (origin bottom-left).
type Rect struct {
	LLX float64 `json:"llx"`
	LLY float64 `json:"lly"`
	URX float64 `json:"urx"`
	URY float64 `json:"ury"`
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		LLX: min(r.LLX, o.LLX),
		LLY: min(r.LLY, o.LLY),
		URX: max(r.URX, o.URX),
		URY: max(r.URY, o.URY),
	}
}

// TextLine is one visual line of a page with a box for every rune of Text.
type TextLine struct {
	Text  string `json:"text"`
	Boxes []Rect `json:"-"`
}
