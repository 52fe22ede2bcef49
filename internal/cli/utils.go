// Package cli provides CLI output helpers for termscan.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/termscan/internal/models"
)

// OutputFormat is the format of the run summary printed after a scan.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat returns the format named s; unknown names are an error.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// WriteRunSummary writes the run summary to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteRunSummary(w io.Writer, summary *models.RunSummary, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	default:
		writeRunSummaryText(w, summary)
		return nil
	}
}

func writeRunSummaryText(w io.Writer, s *models.RunSummary) {
	fmt.Fprintf(w, "\nScanned %d files for %q in %s (%d with mentions, %d without, %d skipped)\n\n",
		len(s.Files), s.Term, s.Duration.Round(time.Millisecond), s.Count(models.StatusOK),
		s.Count(models.StatusNoMentions), s.Count(models.StatusSkipped))
	for _, f := range s.Files {
		writeOneFile(w, f)
	}
	if n := s.TotalMentions(); n > 0 {
		fmt.Fprintf(w, "\n%d mentions in total.\n", n)
	}
}

func writeOneFile(w io.Writer, f *models.FileResult) {
	name := filepath.Base(f.Path)
	switch f.Status {
	case models.StatusSkipped:
		fmt.Fprintf(w, "[skipped] %s: %s\n", name, Truncate(f.Error, 120))
		return
	case models.StatusNoMentions:
		fmt.Fprintf(w, "[none]    %s\n", name)
		return
	}
	fmt.Fprintf(w, "[ok]      %s: %d mentions on %d pages\n", name, len(f.Mentions), f.Pages)
	if len(f.Mentions) > 0 {
		m := f.Mentions[0]
		fmt.Fprintf(w, "          p.%d %s\n", m.Page, TruncateWords(m.Text, 12))
	}
	if f.ReportPath != "" {
		fmt.Fprintf(w, "          report: %s\n", f.ReportPath)
	}
	if f.HighlightedPath != "" {
		fmt.Fprintf(w, "          highlighted: %s (%d marks)\n", f.HighlightedPath, f.Highlights)
	}
	if f.Error != "" {
		fmt.Fprintf(w, "          warning: %s\n", Truncate(f.Error, 120))
	}
}

// Truncate truncates s to maxLen runes and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
