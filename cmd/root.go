package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chemviz/chemviz/pkg/config"
)

var (
	cfgFile  string
	envFile  string
	logLevel string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "chemviz",
	Short: "Chemical equipment dataset service",
	Long: `chemviz ingests CSV exports of chemical equipment parameters, keeps a summary of each
upload and serves them over HTTP together with password protected PDF reports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
}

// Execute is the entry point called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./chemviz.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with CHEMVIZ_* variables, skipped when missing")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides log_level from the config")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig(cmd *cobra.Command) error {
	// Variables already set in the environment win over the file.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		c.LogLevel = logLevel
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	logrus.SetLevel(level)
	logrus.SetOutput(cmd.ErrOrStderr())

	cfg = c

	return nil
}
