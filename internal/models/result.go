package models

import "time"

// FileStatus is the outcome of scanning one file.
type FileStatus string

const (
	// StatusOK means mentions were found and reported.
	StatusOK FileStatus = "ok"
	// StatusNoMentions means the file was read but the term does not occur.
	StatusNoMentions FileStatus = "no_mentions"
	// StatusSkipped means the file could not be processed.
	StatusSkipped FileStatus = "skipped"
)

// FileResult is the outcome of scanning one PDF.
type FileResult struct {
	Path            string      `json:"path"`
	Status          FileStatus  `json:"status"`
	Pages           int         `json:"pages"`
	Mentions        []Mention   `json:"mentions,omitempty"`
	Author          *AuthorInfo `json:"author,omitempty"`
	Record          *Record     `json:"record,omitempty"`
	ReportPath      string      `json:"report_path,omitempty"`
	HighlightedPath string      `json:"highlighted_path,omitempty"`
	Highlights      int         `json:"highlights,omitempty"`
	Error           string      `json:"error,omitempty"`
}

// RunSummary collects the results of one directory scan.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	Directory string        `json:"directory"`
	Term      string        `json:"term"`
	Mode      string        `json:"mode"`
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration_ns"`
	Files     []*FileResult `json:"files"`
}

// Count returns how many files ended with the given status.
func (s *RunSummary) Count(status FileStatus) int {
	n := 0
	for _, f := range s.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// TotalMentions returns the number of mentions across all files.
func (s *RunSummary) TotalMentions() int {
	n := 0
	for _, f := range s.Files {
		n += len(f.Mentions)
	}
	return n
}
