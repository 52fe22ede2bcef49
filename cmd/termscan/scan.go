package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyperjump/termscan/internal/cli"
	"github.com/hyperjump/termscan/internal/config"
	"github.com/hyperjump/termscan/internal/scanner"
	"github.com/hyperjump/termscan/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Scan a directory of PDFs and write reports",
		Long: `Scan extracts every PDF in dir (or input.directory from the config), writes a
report next to each PDF that mentions the term, and prints a run summary.
A PDF that cannot be read is skipped and listed in the summary.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
	f := cmd.Flags()
	f.String("term", "", "term to search for (default \"Coase\")")
	f.StringSlice("variant", nil, "additional phrase to match, may be repeated")
	f.String("mode", "", "passage mode: context, sentence or paragraph")
	f.Int("context-chars", 0, "characters on each side of a match in context mode")
	f.String("metadata", "", "bibliographic spreadsheet (.xlsx or .csv)")
	f.String("output-dir", "", "directory for reports (default: next to each PDF)")
	f.Bool("highlight", false, "write a highlighted copy of each PDF with mentions")
	f.Bool("in-place", false, "add highlights to the source PDF instead of a copy")
	f.String("summary", "", "write a run summary workbook (.xlsx)")
	f.Bool("recursive", false, "scan subdirectories")
	f.String("format", "text", "run summary format on stdout: text or json")
	return cmd
}

func init() {
	rootCmd.AddCommand(newScanCmd())
}

func runScan(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cmd, cfg, args); err != nil {
		return err
	}
	formatName, _ := cmd.Flags().GetString("format")
	format, err := cli.ParseOutputFormat(formatName)
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()
	logger.Debug("config loaded",
		zap.String("config_path", resolved),
		zap.String("dir", cfg.Input.Directory),
		zap.String("term", cfg.Search.Term),
		zap.String("mode", cfg.Search.Mode))

	s, err := scanner.New(cfg, scanner.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	summary, scanErr := s.ScanDirectory(ctx, cfg.Input.Directory)
	if summary != nil {
		if err := cli.WriteRunSummary(cmd.OutOrStdout(), summary, format); err != nil {
			return err
		}
	}
	return scanErr
}

// applyFlags copies the flags that were set on the command line over cfg and validates
// the result.
func applyFlags(cmd *cobra.Command, cfg *config.Config, args []string) error {
	f := cmd.Flags()
	if len(args) == 1 {
		cfg.Input.Directory = args[0]
	}
	if f.Changed("debug") {
		cfg.Debug, _ = f.GetBool("debug")
	}
	if f.Changed("term") {
		cfg.Search.Term, _ = f.GetString("term")
		// Configured variants belong to the configured term.
		cfg.Search.Variants = nil
	}
	if f.Changed("variant") {
		cfg.Search.Variants, _ = f.GetStringSlice("variant")
	}
	if f.Changed("mode") {
		cfg.Search.Mode, _ = f.GetString("mode")
	}
	if f.Changed("context-chars") {
		cfg.Search.ContextChars, _ = f.GetInt("context-chars")
	}
	if f.Changed("metadata") {
		cfg.Metadata.Path, _ = f.GetString("metadata")
	}
	if f.Changed("output-dir") {
		cfg.Output.Directory, _ = f.GetString("output-dir")
	}
	if f.Changed("highlight") {
		cfg.Highlight.Enabled, _ = f.GetBool("highlight")
	}
	if f.Changed("in-place") {
		cfg.Highlight.InPlace, _ = f.GetBool("in-place")
		if cfg.Highlight.InPlace {
			cfg.Highlight.Enabled = true
		}
	}
	if f.Changed("summary") {
		cfg.Output.SummaryPath, _ = f.GetString("summary")
	}
	if f.Changed("recursive") {
		r, _ := f.GetBool("recursive")
		cfg.Input.Recursive = &r
	}
	config.ApplyDefaults(cfg)
	return cfg.Validate()
}
