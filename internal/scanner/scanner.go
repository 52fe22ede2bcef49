// Package scanner runs the extract, search, bio, metadata, report and highlight steps over
// the PDFs of a directory.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/termscan/internal/bio"
	"github.com/hyperjump/termscan/internal/config"
	"github.com/hyperjump/termscan/internal/extract"
	"github.com/hyperjump/termscan/internal/highlight"
	"github.com/hyperjump/termscan/internal/metadata"
	"github.com/hyperjump/termscan/internal/models"
	"github.com/hyperjump/termscan/internal/report"
	"github.com/hyperjump/termscan/internal/search"
	"go.uber.org/zap"
)

// Scanner processes PDFs one at a time.
type Scanner struct {
	cfg       *config.Config
	extractor *extract.Extractor
	finder    *search.Finder
	bio       *bio.Extractor // nil when disabled
	catalog   *metadata.Catalog
	reports   *report.TextWriter
	annotator *highlight.Annotator // nil when disabled
	logger    *zap.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger. Per-file failures are logged as warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// WithCatalog uses c instead of loading cfg.Metadata.Path.
func WithCatalog(c *metadata.Catalog) Option {
	return func(s *Scanner) { s.catalog = c }
}

// New builds a Scanner from cfg. The metadata spreadsheet, when configured, is loaded
// here so a bad spreadsheet fails the run before any file is touched.
func New(cfg *config.Config, opts ...Option) (*Scanner, error) {
	s := &Scanner{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	s.extractor = extract.NewExtractor(extract.WithLogger(s.logger))
	finder, err := search.NewFinder(&cfg.Search, search.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	s.finder = finder
	if cfg.Bio.EnabledOrDefault() {
		s.bio = bio.NewExtractor(cfg.Bio.MaxPages, bio.WithLogger(s.logger))
	}
	if s.catalog == nil && cfg.Metadata.Path != "" {
		c, err := metadata.Load(cfg.Metadata.Path, metadata.ColumnsFromConfig(&cfg.Metadata),
			metadata.WithSheet(cfg.Metadata.Sheet), metadata.WithLogger(s.logger))
		if err != nil {
			return nil, fmt.Errorf("load metadata: %w", err)
		}
		s.catalog = c
	}
	s.reports = report.NewTextWriter(&cfg.Output, cfg.Search.Term, report.WithLogger(s.logger))
	if cfg.Highlight.Enabled {
		s.annotator = highlight.NewAnnotator(cfg.Highlight.Color, highlight.WithLogger(s.logger))
	}
	return s, nil
}

// ScanDirectory scans the PDFs in dir (cfg.Input.Directory when empty) in lexical order.
// A file that fails is recorded as skipped and the scan goes on. The context is checked
// between files; on cancellation the partial summary is returned with ctx.Err().
func (s *Scanner) ScanDirectory(ctx context.Context, dir string) (*models.RunSummary, error) {
	if dir == "" {
		dir = s.cfg.Input.Directory
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", absDir)
	}
	files, err := s.listFiles(absDir)
	if err != nil {
		return nil, err
	}

	summary := &models.RunSummary{
		RunID:     uuid.New().String(),
		Directory: absDir,
		Term:      s.cfg.Search.Term,
		Mode:      s.cfg.Search.Mode,
		Started:   time.Now(),
	}
	log := s.logger.With(zap.String("run_id", summary.RunID))
	log.Info("scan started", zap.String("dir", absDir), zap.Int("files", len(files)))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(summary.Started)
			log.Warn("scan interrupted", zap.Int("done", len(summary.Files)), zap.Error(err))
			if werr := s.writeSummary(log, summary); werr != nil {
				log.Error("summary not written", zap.Error(werr))
			}
			return summary, err
		}
		res, err := s.ScanFile(ctx, path)
		if err != nil {
			log.Warn("skipping file", zap.String("path", path), zap.Error(err))
			res = &models.FileResult{Path: path, Status: models.StatusSkipped, Error: err.Error()}
		} else {
			log.Info("file scanned",
				zap.String("path", filepath.Base(path)),
				zap.String("status", string(res.Status)),
				zap.Int("mentions", len(res.Mentions)))
		}
		summary.Files = append(summary.Files, res)
	}
	summary.Duration = time.Since(summary.Started)

	if err := s.writeSummary(log, summary); err != nil {
		return summary, err
	}
	log.Info("scan finished",
		zap.Int("with_mentions", summary.Count(models.StatusOK)),
		zap.Int("without_mentions", summary.Count(models.StatusNoMentions)),
		zap.Int("skipped", summary.Count(models.StatusSkipped)),
		zap.Duration("took", summary.Duration))
	return summary, nil
}

// writeSummary writes the run workbook when output.summary_path is set.
func (s *Scanner) writeSummary(log *zap.Logger, summary *models.RunSummary) error {
	p := s.cfg.Output.SummaryPath
	if p == "" {
		return nil
	}
	if err := report.NewSummaryWriter(p).Write(summary); err != nil {
		return err
	}
	log.Debug("summary written", zap.String("path", p))
	return nil
}

// ScanFile runs the pipeline on one PDF. An error means the file could not be read; a
// failed highlight is recorded in the result instead.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*models.FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := s.extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	res := &models.FileResult{
		Path:     path,
		Status:   models.StatusNoMentions,
		Pages:    doc.PageCount(),
		Mentions: s.finder.Find(doc),
	}
	if len(res.Mentions) > 0 {
		res.Status = models.StatusOK
	}
	if s.bio != nil {
		res.Author = s.bio.Extract(doc)
	}
	res.Record = s.lookup(doc)

	if res.Status == models.StatusOK || !s.cfg.Output.SkipEmptyOrDefault() {
		p, err := s.reports.Write(res)
		if err != nil {
			return nil, err
		}
		res.ReportPath = p
	}

	if s.annotator != nil && res.Status == models.StatusOK {
		if err := s.highlight(res); err != nil {
			s.logger.Warn("highlight failed", zap.String("path", path), zap.Error(err))
			res.Error = fmt.Sprintf("highlight: %v", err)
		}
	}
	return res, nil
}

// lookup returns the spreadsheet record for doc, falling back to its /Info title and
// author.
func (s *Scanner) lookup(doc *models.Document) *models.Record {
	if rec, ok := s.catalog.Lookup(doc.Path); ok {
		return rec
	}
	title, author := doc.Info["Title"], doc.Info["Author"]
	if title == "" && author == "" {
		return nil
	}
	return &models.Record{Title: title, Author: author}
}

func (s *Scanner) highlight(res *models.FileResult) error {
	var pages []int
	seen := make(map[int]bool)
	for _, m := range res.Mentions {
		for p := m.Page; p <= m.LastPage(); p++ {
			if !seen[p] {
				seen[p] = true
				pages = append(pages, p)
			}
		}
	}
	lines, err := s.extractor.Lines(res.Path, pages)
	if err != nil {
		return err
	}
	marks := highlight.Marks(lines, res.Mentions)
	dst := res.Path
	if !s.cfg.Highlight.InPlace {
		dst = highlight.OutputPath(res.Path, s.cfg.Highlight.Suffix)
	}
	n, err := s.annotator.Annotate(res.Path, dst, marks)
	if err != nil {
		return err
	}
	if n > 0 {
		res.Highlights = n
		res.HighlightedPath = dst
	}
	return nil
}

// listFiles returns the regular files under dir with an allowed extension, sorted.
// Highlighted copies written by earlier runs are left out.
func (s *Scanner) listFiles(dir string) ([]string, error) {
	var files []string
	keep := func(path string) {
		if !extensionAllowed(filepath.Ext(path), s.cfg.Input.Extensions) || s.isOutput(path) {
			return
		}
		// Resolve symlinks so we only scan regular files
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			files = append(files, path)
		}
	}

	if s.cfg.Input.RecursiveOrDefault() {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !d.IsDir() {
				keep(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read directory: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				keep(filepath.Join(dir, e.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s *Scanner) isOutput(path string) bool {
	suffix := s.cfg.Highlight.Suffix
	if suffix == "" {
		return false
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(stem, suffix)
}

func extensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
