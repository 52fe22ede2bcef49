package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/termscan/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	filesSheet = "Files"
	runSheet   = "Run"
)

var summaryHeader = []any{
	"File", "Status", "Pages", "Mentions", "Highlights", "Title", "Author", "Year",
	"Report", "Highlighted PDF", "Error",
}

// SummaryWriter writes a run summary workbook: one row per file on the Files sheet and
// the run parameters on the Run sheet.
type SummaryWriter struct {
	path string
}

// NewSummaryWriter returns a writer for the workbook at path.
func NewSummaryWriter(path string) *SummaryWriter {
	return &SummaryWriter{path: path}
}

// Write saves s to the workbook, replacing any existing file.
func (w *SummaryWriter) Write(s *models.RunSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", filesSheet); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	if err := f.SetSheetRow(filesSheet, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	for i, r := range s.Files {
		var title, author, year string
		if r.Record != nil {
			title, author, year = r.Record.Title, r.Record.Author, r.Record.Year
		}
		row := []any{
			r.Path, string(r.Status), r.Pages, len(r.Mentions), r.Highlights, title, author, year,
			r.ReportPath, r.HighlightedPath, r.Error,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		if err := f.SetSheetRow(filesSheet, cell, &row); err != nil {
			return fmt.Errorf("summary: %w", err)
		}
	}
	if err := f.SetPanes(filesSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	if _, err := f.NewSheet(runSheet); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	params := [][]any{
		{"Run ID", s.RunID},
		{"Directory", s.Directory},
		{"Term", s.Term},
		{"Mode", s.Mode},
		{"Started", s.Started.Format("2006-01-02 15:04:05")},
		{"Duration", s.Duration.String()},
		{"Files", len(s.Files)},
		{"With mentions", s.Count(models.StatusOK)},
		{"Without mentions", s.Count(models.StatusNoMentions)},
		{"Skipped", s.Count(models.StatusSkipped)},
		{"Mentions", s.TotalMentions()},
	}
	for i, row := range params {
		if err := f.SetSheetRow(runSheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("summary: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}
