// Package metadata correlates PDFs with rows of a bibliographic spreadsheet
// (for example a Zotero export).
package metadata

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/termscan/internal/config"
	"github.com/hyperjump/termscan/internal/models"
	"go.uber.org/zap"
)

// ErrMissingColumn is returned when a required header is not in the spreadsheet.
var ErrMissingColumn = errors.New("missing column")

// minFuzzyLen is the shortest normalised title or file stem used for fuzzy matching.
const minFuzzyLen = 20

// Columns names the spreadsheet headers. Attachment, Title and Author are required.
type Columns struct {
	Attachment string
	Title      string
	Author     string
	Year       string
}

// ColumnsFromConfig returns the header names configured in cfg.
func ColumnsFromConfig(cfg *config.MetadataConfig) Columns {
	return Columns{
		Attachment: cfg.AttachmentColumn,
		Title:      cfg.TitleColumn,
		Author:     cfg.AuthorColumn,
		Year:       cfg.YearColumn,
	}
}

// Catalog is an in-memory index of spreadsheet records.
type Catalog struct {
	records []*models.Record
	byName  map[string]*models.Record
	titles  []string // normalised, parallel to records
	sheet   string
	logger  *zap.Logger // optional; when set, logs debug events
}

// Option configures loading.
type Option func(*Catalog)

// WithSheet selects the xlsx sheet to read; the first sheet is used by default.
func WithSheet(name string) Option {
	return func(c *Catalog) { c.sheet = name }
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// Load reads the spreadsheet at p (.xlsx or .csv). The first row is the header; headers
// are matched case-insensitively. Returns an error wrapping ErrMissingColumn when a
// required column is absent.
func Load(p string, cols Columns, opts ...Option) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*models.Record)}
	for _, opt := range opts {
		opt(c)
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(p)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(p, c.sheet)
	case ".csv":
		rows, err = readCSV(p)
	default:
		return nil, fmt.Errorf("unsupported metadata format %q", filepath.Ext(p))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("metadata %s: no header row", p)
	}

	header := make(map[string]int)
	for i, h := range rows[0] {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := header[h]; !dup {
			header[h] = i
		}
	}
	index := func(name string, required bool) (int, error) {
		i, ok := header[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			if required {
				return -1, fmt.Errorf("metadata %s: %w %q", p, ErrMissingColumn, name)
			}
			return -1, nil
		}
		return i, nil
	}
	attCol, err := index(cols.Attachment, true)
	if err != nil {
		return nil, err
	}
	titleCol, err := index(cols.Title, true)
	if err != nil {
		return nil, err
	}
	authorCol, err := index(cols.Author, true)
	if err != nil {
		return nil, err
	}
	yearCol, _ := index(cols.Year, false)

	for n, row := range rows[1:] {
		rec := &models.Record{
			Title:  cell(row, titleCol),
			Author: cell(row, authorCol),
			Year:   cell(row, yearCol),
			Row:    n + 2,
		}
		for _, a := range strings.Split(cell(row, attCol), ";") {
			if a = strings.TrimSpace(a); a != "" {
				rec.Attachments = append(rec.Attachments, a)
			}
		}
		if rec.Title == "" && len(rec.Attachments) == 0 {
			continue
		}
		c.add(rec)
	}
	if c.logger != nil {
		c.logger.Debug("metadata loaded",
			zap.String("path", p),
			zap.Int("records", len(c.records)),
			zap.Int("attachments", len(c.byName)))
	}
	return c, nil
}

func (c *Catalog) add(rec *models.Record) {
	c.records = append(c.records, rec)
	c.titles = append(c.titles, normalize(rec.Title))
	for _, a := range rec.Attachments {
		name := baseName(a)
		if _, taken := c.byName[name]; !taken {
			c.byName[name] = rec
		}
	}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Lookup finds the record for the PDF at pdfPath: first by attachment base name, then by
// comparing the normalised file stem with record titles. A fuzzy match needs the shorter
// of the two to be at least 20 characters and contained in the longer; failing that, the
// closest title within a 10% edit distance wins.
func (c *Catalog) Lookup(pdfPath string) (*models.Record, bool) {
	if c == nil {
		return nil, false
	}
	name := baseName(pdfPath)
	if rec, ok := c.byName[name]; ok {
		return rec, true
	}
	stem := normalize(strings.TrimSuffix(name, path.Ext(name)))
	for i, title := range c.titles {
		short, long := stem, title
		if utf8.RuneCountInString(short) > utf8.RuneCountInString(long) {
			short, long = long, short
		}
		if utf8.RuneCountInString(short) >= minFuzzyLen && strings.Contains(long, short) {
			return c.records[i], true
		}
	}
	best, bestDist := -1, 0
	for i, title := range c.titles {
		d, ok := titleDistance(stem, title)
		if !ok {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return c.records[best], true
	}
	return nil, false
}

// baseName returns the lowercase base name of a native or Windows path.
func baseName(p string) string {
	return strings.ToLower(path.Base(strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")))
}

// normalize keeps only lowercase letters and digits.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
