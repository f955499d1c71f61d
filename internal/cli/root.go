package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Future-Scholars/paperlib-sync/internal/config"
	"github.com/Future-Scholars/paperlib-sync/internal/engine"
	"github.com/Future-Scholars/paperlib-sync/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	DBPath     string // overrides the configured database path
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the plsync CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "plsync",
		Short: "plsync - local-first library synchronization",
		Long:  "Applies, validates and inspects sync payloads against a local library database.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", defaultConfigPath(), "config file path")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database path (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// defaultConfigPath returns the standard config location.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "plsync.toml"
	}
	return home + "/.config/plsync/config.toml"
}

// openEngine resolves configuration, opens the library database and builds
// an engine. The returned closer must be called when done.
func openEngine(opts *RootOptions) (*engine.Engine, func() error, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, nil, fmt.Errorf("no --db given and config unreadable: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
		dbPath = cfg.DatabasePath
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return engine.New(s, engine.WithLogger(log)), s.Close, nil
}
