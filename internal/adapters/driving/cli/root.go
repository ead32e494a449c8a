// Package cli implements the coursechat command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/classroom-labs/coursechat-cli/internal/adapters/driven/config/file"
	"github.com/classroom-labs/coursechat-cli/internal/logger"
)

// version is the CLI version, set at build time via -ldflags.
var version = "0.1.0"

var (
	verbose bool
	dataDir string

	configStore *file.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "coursechat",
	Short: "Ask questions about ingested course material",
	Long: `coursechat ingests course transcripts and answers questions about them
using retrieval-augmented generation. The language model decides per query
whether to search the ingested content, fetch a course outline, or answer
from general knowledge.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// A .env file in the working directory may provide API keys.
		godotenv.Load() //nolint:errcheck

		logger.SetVerbose(verbose)

		var err error
		configStore, err = file.NewConfigStore(os.Getenv("COURSECHAT_CONFIG_DIR"))
		if err != nil {
			return fmt.Errorf("opening config store: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.coursechat/data)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
