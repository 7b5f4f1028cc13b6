package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"playstore/config"
)

var (
	logLevel string
	jsonLogs bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "Storefront catalog tool",
	Long: `Offline tooling for the storefront catalog: parse saved product pages,
compute display prices from the persisted rate tables and run product imports
from the command line.`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "write logs as JSON")

	rootCmd.AddCommand(newParseCmd(), newPriceCmd(), newImportCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func persistentPreRun(cmd *cobra.Command, args []string) error {
	initLogger()
	return nil
}

func initLogger() {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	// Logs go to stderr so that command output stays machine readable
	var output io.Writer = os.Stderr
	if !jsonLogs {
		output = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
