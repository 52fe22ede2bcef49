package config

import "strings"

// Search modes.
const (
	ModeContext   = "context"
	ModeSentence  = "sentence"
	ModeParagraph = "paragraph"
)

// DefaultTerm is the term scanned for when none is configured.
const DefaultTerm = "Coase"

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Input.Directory == "" {
		cfg.Input.Directory = "."
	}
	if cfg.Input.Extensions == nil {
		cfg.Input.Extensions = []string{".pdf"}
	}
	if cfg.Search.Term == "" {
		cfg.Search.Term = DefaultTerm
		if cfg.Search.Variants == nil {
			cfg.Search.Variants = []string{"Coase's result", "Coase theorem"}
		}
	}
	cfg.Search.Mode = strings.ToLower(strings.TrimSpace(cfg.Search.Mode))
	if cfg.Search.Mode == "" {
		cfg.Search.Mode = ModeSentence
	}
	if cfg.Search.ContextChars == 0 {
		cfg.Search.ContextChars = 1000
	}
	if cfg.Bio.MaxPages == 0 {
		cfg.Bio.MaxPages = 2
	}
	if cfg.Metadata.AttachmentColumn == "" {
		cfg.Metadata.AttachmentColumn = "File Attachments"
	}
	if cfg.Metadata.TitleColumn == "" {
		cfg.Metadata.TitleColumn = "Title"
	}
	if cfg.Metadata.AuthorColumn == "" {
		cfg.Metadata.AuthorColumn = "Author"
	}
	if cfg.Metadata.YearColumn == "" {
		cfg.Metadata.YearColumn = "Publication Year"
	}
	if cfg.Output.ReportSuffix == "" {
		cfg.Output.ReportSuffix = ".txt"
	}
	if cfg.Output.Separator == "" {
		cfg.Output.Separator = strings.Repeat("-", 50)
	}
	if cfg.Highlight.Suffix == "" {
		cfg.Highlight.Suffix = "_highlighted"
	}
	if cfg.Highlight.Color == nil {
		cfg.Highlight.Color = []float64{1, 1, 0}
	}
}
