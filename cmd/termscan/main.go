// Package main is the termscan CLI entry point.
package main

import (
	"os"
	"path/filepath"

	"github.com/hyperjump/termscan/internal/config"
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// defaultConfigName is looked up in the current directory when --config is not given.
const defaultConfigName = "termscan.yaml"

var rootCmd = &cobra.Command{
	Use:   "termscan",
	Short: "Find passages that mention a term in a directory of PDFs",
	Long: `termscan extracts the text of every PDF in a directory, finds the sentences,
paragraphs or context windows that mention a term (default "Coase"), and writes a
plain-text report per PDF. It can also match PDFs against a bibliographic
spreadsheet, pick up author biographies, and write highlighted copies of the PDFs.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./"+defaultConfigName+" when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

// loadConfig loads config from path. When path is empty it uses termscan.yaml in the
// current directory if there is one, and built-in defaults otherwise.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, defaultConfigName)
			if _, statErr := os.Stat(fallback); statErr == nil {
				path = fallback
			}
		}
	}
	if path == "" {
		return config.Default(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
