// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/appContable/statement-core/internal/config"
	"github.com/appContable/statement-core/internal/container"
	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/parser"
)

// CommonFlags represents the flags that are shared by multiple commands.
type CommonFlags struct {
	User   string
	Bank   string
	Output string
}

var (
	// Log is the shared logger instance for commands.
	Log = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration.
	Cfg *config.Config

	// AppContainer holds the wired dependencies for the running command.
	AppContainer *container.Container

	// SharedFlags are accessible to all commands.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-core",
		Short: "Parse bank statement text exports into categorized account statements.",
		Long: `statement-core converts raw text exports of bank account statements into
structured, categorized statements. It recognizes per-bank line formats,
applies bank-wide and per-user categorization rules, learns new rules from
corrections and enforces a monthly per-user usage quota.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			Log.Info("Welcome to statement-core!")
			Log.Info("Use --help to see available commands",
				logging.Field{Key: "banks", Value: parser.Banks()})
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadEnvSilently()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

			c, err := container.New(cfg, Log)
			if err != nil {
				return err
			}
			AppContainer = c
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close store")
			}
		},
	}
)

// Init initializes the root command and all shared flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.User, "user", "u", "", "User identifier owning the request")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Bank, "bank", "b", "", "Bank code (see 'statement-core parse --help' for known codes)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default stdout)")
}

// GetContainer returns the wired dependency container, or nil before
// PersistentPreRunE has run.
func GetContainer() *container.Container {
	return AppContainer
}

// RequireUserAndBank validates the shared flags most commands need.
func RequireUserAndBank() error {
	if SharedFlags.User == "" {
		return fmt.Errorf("--user is required")
	}
	if SharedFlags.Bank == "" {
		return fmt.Errorf("--bank is required")
	}
	return nil
}

// OpenOutput returns the writer selected by --output, defaulting to stdout.
// The returned close function is a no-op for stdout.
func OpenOutput() (*os.File, func(), error) {
	if SharedFlags.Output == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(SharedFlags.Output) // #nosec G304 -- CLI tool requires user-provided output paths
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if cerr := f.Close(); cerr != nil {
			Log.WithError(cerr).Warn("Failed to close output file")
		}
	}, nil
}

// loadEnvSilently loads environment variables without logging anything.
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}
