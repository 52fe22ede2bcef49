package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/termscan/internal/config"
	"github.com/hyperjump/termscan/internal/models"
	"github.com/xuri/excelize/v2"
)

var defaultColumns = ColumnsFromConfig(&config.Default().Metadata)

func writeXLSX(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatal(err)
		}
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "export.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_xlsx(t *testing.T) {
	path := writeXLSX(t, "Library", [][]any{
		{"Key", "Title", "Author", "Publication Year", "File Attachments"},
		{"K1", "The Problem of Social Cost", "Coase, Ronald", 1960,
			`C:\Users\me\Zotero\storage\AB12\Coase_1960.pdf; C:\Users\me\Zotero\storage\AB12\snapshot.html`},
		{"K2", "The Nature of the Firm and Other Essays", "Coase, Ronald", 1937, ""},
	})
	c, err := Load(path, defaultColumns)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	rec, ok := c.Lookup("/data/pdfs/COASE_1960.pdf")
	if !ok {
		t.Fatal("expected base-name match")
	}
	if rec.Title != "The Problem of Social Cost" || rec.Year != "1960" || rec.Row != 2 {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Attachments) != 2 {
		t.Errorf("attachments = %q", rec.Attachments)
	}

	rec, ok = c.Lookup("/data/pdfs/The Nature of the Firm and Other.pdf")
	if !ok || rec.Row != 3 {
		t.Errorf("expected fuzzy title match on row 3, got %+v, %v", rec, ok)
	}
	if _, ok := c.Lookup("/data/pdfs/unrelated.pdf"); ok {
		t.Error("unexpected match")
	}
}

func TestLoad_namedSheet(t *testing.T) {
	path := writeXLSX(t, "Second", [][]any{
		{"title", "AUTHOR", "file attachments"},
		{"Some Title", "Roe, Jane", "roe.pdf"},
	})
	c, err := Load(path, defaultColumns, WithSheet("Second"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rec, ok := c.Lookup("roe.pdf")
	if !ok || rec.Author != "Roe, Jane" || rec.Year != "" {
		t.Errorf("Lookup = %+v, %v", rec, ok)
	}
	if _, err := Load(path, defaultColumns, WithSheet("Missing")); err == nil {
		t.Error("expected error for missing sheet")
	}
}

func TestLoad_csv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	content := "\ufeffTitle,Author,Publication Year,File Attachments\n" +
		"\"Law, Economics, and Cost\",\"Roe, Jane\",2001,/home/me/roe.pdf;/home/me/roe-app.pdf\n" +
		"short row\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path, defaultColumns)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rec, ok := c.Lookup("/elsewhere/roe-app.pdf")
	if !ok || rec.Title != "Law, Economics, and Cost" || rec.Year != "2001" {
		t.Errorf("Lookup = %+v, %v", rec, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestLoad_missingColumn(t *testing.T) {
	path := writeXLSX(t, "Sheet1", [][]any{{"Title", "Author"}, {"x", "y"}})
	_, err := Load(path, defaultColumns)
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
}

func TestLoad_unsupported(t *testing.T) {
	if _, err := Load("library.json", defaultColumns); err == nil {
		t.Error("expected error for unsupported format")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "none.csv"), defaultColumns); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLookup_fuzzyMinimumLength(t *testing.T) {
	c := &Catalog{byName: map[string]*models.Record{}}
	c.add(&models.Record{Title: "Costs", Row: 2})
	c.add(&models.Record{Title: "Transaction Costs and Property Rights", Row: 3})
	if _, ok := c.Lookup("costs.pdf"); ok {
		t.Error("short stems must not fuzzy match")
	}
	// The stem is ten runes, twenty bytes.
	c.add(&models.Record{Title: "Οικονομικά του δικαίου", Row: 4})
	if _, ok := c.Lookup("οικονομικά.pdf"); ok {
		t.Error("the length limit counts runes, not bytes")
	}
	rec, ok := c.Lookup("transaction_costs_and_property.pdf")
	if !ok || rec.Row != 3 {
		t.Errorf("Lookup = %+v, %v", rec, ok)
	}
	var nilCatalog *Catalog
	if _, ok := nilCatalog.Lookup("x.pdf"); ok {
		t.Error("nil catalog should match nothing")
	}
}

func TestNormalize(t *testing.T) {
	if got := normalize("The Firm, the Market & the Law (1988)"); got != "thefirmthemarketthelaw1988" {
		t.Errorf("normalize = %q", got)
	}
}

func TestLookup_editDistance(t *testing.T) {
	c := &Catalog{byName: map[string]*models.Record{}}
	c.add(&models.Record{Title: "The Problem of Social Cost", Row: 2})
	c.add(&models.Record{Title: "The Nature of the Firm", Row: 3})
	rec, ok := c.Lookup("/pdfs/the-problem-of-socail-cost.pdf")
	if !ok || rec.Row != 2 {
		t.Errorf("Lookup = %+v, %v", rec, ok)
	}
}
