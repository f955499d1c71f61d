package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <kind> <id>",
		Short: "Show an entity's field version provenance",
		Long: `Show an entity's field version provenance.

Lists each tracked field's current value with the timestamp and device that
wrote it. Works for tombstoned entities too - provenance outlives deletion.

Example:
  plsync history paper P1`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, model.EntityKind(args[0]), args[1], cmd)
		},
	}

	return cmd
}

func runHistory(opts *RootOptions, kind model.EntityKind, id string, cmd *cobra.Command) error {
	eng, closer, err := openEngine(opts)
	if err != nil {
		return err
	}
	defer closer()

	versions, err := eng.History(cmd.Context(), kind, id)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return fmt.Errorf("no %s with id %s", kind, id)
	}

	if opts.Format == "json" {
		type versionView struct {
			Field     string  `json:"field"`
			Value     *string `json:"value"`
			Timestamp int64   `json:"timestamp"`
			DeviceID  string  `json:"deviceId"`
			Hash      string  `json:"hash,omitempty"`
			DeletedAt *int64  `json:"deletedAt,omitempty"`
		}
		views := make([]versionView, len(versions))
		for i, v := range versions {
			views[i] = versionView{
				Field: v.Field, Value: v.Value, Timestamp: v.Timestamp,
				DeviceID: v.DeviceID, Hash: v.Hash, DeletedAt: v.DeletedAt,
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	for _, v := range versions {
		value := "<null>"
		if v.Value != nil {
			value = *v.Value
		}
		line := fmt.Sprintf("%-20s %s  (ts=%d, device=%s", v.Field, value, v.Timestamp, v.DeviceID)
		if v.Hash != "" {
			line += ", hash=" + v.Hash[:12]
		}
		if v.Deleted() {
			line += ", tombstoned"
		}
		line += ")"
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}

	return nil
}
