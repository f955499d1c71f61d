package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Future-Scholars/paperlib-sync/internal/config"
	"github.com/Future-Scholars/paperlib-sync/internal/store"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	BaseDir string
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the config file and library database",
		Long: `Create the config file and library database.

Generates a stable device id for this installation, writes the config file,
and opens the database once so the schema is created and migrated.

Example:
  plsync init --base-dir ~/.local/share/plsync`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.BaseDir, "base-dir", defaultBaseDir(), "directory for the library database")

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	if _, err := os.Stat(opts.ConfigPath); err == nil {
		return fmt.Errorf("config already exists at %s", opts.ConfigPath)
	}

	// UUIDv7 so device ids sort by creation time when debugging traces.
	deviceID := uuid.Must(uuid.NewV7()).String()
	cfg := config.New(deviceID, opts.BaseDir)
	if opts.DBPath != "" {
		cfg.DatabasePath = opts.DBPath
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	s, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	if err := s.Close(); err != nil {
		return err
	}

	if err := config.Save(opts.ConfigPath, cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized library at %s\n", cfg.DatabasePath)
	fmt.Fprintf(cmd.OutOrStdout(), "Device id: %s\n", cfg.DeviceID)
	fmt.Fprintf(cmd.OutOrStdout(), "Config: %s\n", opts.ConfigPath)

	return nil
}

func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "plsync-data"
	}
	return filepath.Join(home, ".local", "share", "plsync")
}
