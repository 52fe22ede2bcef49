package models

// Mention is a passage of a document that contains the search term.
type Mention struct {
	// Page is the 1-based page the passage starts on.
	Page int `json:"page"`
	// EndPage is the page the passage ends on when it runs past Page, 0 otherwise.
	EndPage int    `json:"end_page,omitempty"`
	Text    string `json:"text"`
	// Matches are the matched substrings, in order, as they appear in Text.
	Matches []string `json:"matches"`
}

// LastPage returns the last page the passage covers.
func (m Mention) LastPage() int {
	return max(m.Page, m.EndPage)
}

// Span is a half-open byte range [Start, End) of a match in some text.
type Span struct {
	Start int
	End   int
}

// AuthorInfo holds biography lines found in the document itself.
type AuthorInfo struct {
	Lines  []string `json:"lines,omitempty"`
	Emails []string `json:"emails,omitempty"`
}

// Empty reports whether no biography information was found.
func (a *AuthorInfo) Empty() bool {
	return a == nil || (len(a.Lines) == 0 && len(a.Emails) == 0)
}

// Record is a row of the bibliographic spreadsheet.
type Record struct {
	Title       string   `json:"title,omitempty"`
	Author      string   `json:"author,omitempty"`
	Year        string   `json:"year,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
	// Row is the 1-based spreadsheet row the record was read from, or 0 when the record
	// was taken from the PDF /Info dictionary.
	Row int `json:"row"`
}
