// Package config provides configuration loading and structs for termscan.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for a scan run.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Input     InputConfig     `yaml:"input"`
	Search    SearchConfig    `yaml:"search"`
	Bio       BioConfig       `yaml:"bio"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	Output    OutputConfig    `yaml:"output"`
	Highlight HighlightConfig `yaml:"highlight"`
}

// InputConfig selects the documents to scan.
type InputConfig struct {
	Directory  string   `yaml:"directory"`
	Extensions []string `yaml:"extensions"`
	Recursive  *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether subdirectories are scanned; defaults to false when unset.
func (in *InputConfig) RecursiveOrDefault() bool {
	if in.Recursive != nil {
		return *in.Recursive
	}
	return false
}

// SearchConfig holds the term and how matching passages are cut out of the text.
type SearchConfig struct {
	Term          string   `yaml:"term"`
	Variants      []string `yaml:"variants"`
	CaseSensitive bool     `yaml:"case_sensitive"`
	WholeWord     bool     `yaml:"whole_word"`
	Mode          string   `yaml:"mode"`
	ContextChars  int      `yaml:"context_chars"`
}

// BioConfig holds author-biography extraction settings.
type BioConfig struct {
	Enabled  *bool `yaml:"enabled"`
	MaxPages int   `yaml:"max_pages"`
}

// EnabledOrDefault returns whether biography extraction runs; defaults to true when unset.
func (b *BioConfig) EnabledOrDefault() bool {
	if b.Enabled != nil {
		return *b.Enabled
	}
	return true
}

// MetadataConfig points at an optional bibliographic spreadsheet.
type MetadataConfig struct {
	Path             string `yaml:"path"`
	Sheet            string `yaml:"sheet"`
	AttachmentColumn string `yaml:"attachment_column"`
	TitleColumn      string `yaml:"title_column"`
	AuthorColumn     string `yaml:"author_column"`
	YearColumn       string `yaml:"year_column"`
}

// OutputConfig controls where and how reports are written.
type OutputConfig struct {
	Directory    string `yaml:"directory"`
	ReportSuffix string `yaml:"report_suffix"`
	Separator    string `yaml:"separator"`
	SkipEmpty    *bool  `yaml:"skip_empty"`
	SummaryPath  string `yaml:"summary_path"`
}

// SkipEmptyOrDefault returns whether files without mentions get no report; defaults to true.
func (o *OutputConfig) SkipEmptyOrDefault() bool {
	if o.SkipEmpty != nil {
		return *o.SkipEmpty
	}
	return true
}

// HighlightConfig controls the annotated PDF copies.
type HighlightConfig struct {
	Enabled bool      `yaml:"enabled"`
	Suffix  string    `yaml:"suffix"`
	Color   []float64 `yaml:"color"`
	InPlace bool      `yaml:"in_place"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Input.Directory = expandPath(cfg.Input.Directory, configDir)
	cfg.Metadata.Path = expandPath(cfg.Metadata.Path, configDir)
	cfg.Output.Directory = expandPath(cfg.Output.Directory, configDir)
	cfg.Output.SummaryPath = expandPath(cfg.Output.SummaryPath, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate reports settings that cannot be used for a run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Search.Term) == "" {
		return fmt.Errorf("search.term must not be empty")
	}
	switch c.Search.Mode {
	case ModeContext, ModeSentence, ModeParagraph:
	default:
		return fmt.Errorf("search.mode %q: want %s, %s or %s", c.Search.Mode, ModeContext, ModeSentence, ModeParagraph)
	}
	if c.Search.ContextChars < 0 {
		return fmt.Errorf("search.context_chars must not be negative")
	}
	if len(c.Highlight.Color) != 3 {
		return fmt.Errorf("highlight.color must have 3 components, got %d", len(c.Highlight.Color))
	}
	for _, v := range c.Highlight.Color {
		if v < 0 || v > 1 {
			return fmt.Errorf("highlight.color components must be within [0,1], got %v", c.Highlight.Color)
		}
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory. Empty stays empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
