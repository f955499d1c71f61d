package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Scope string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <kind> <id>",
		Short: "Show a live record",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, model.EntityKind(args[0]), args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", "", "restrict to one parent scope (library id)")

	return cmd
}

func runShow(opts *ShowOptions, kind model.EntityKind, id string, cmd *cobra.Command) error {
	eng, closer, err := openEngine(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	rec, err := eng.Get(cmd.Context(), kind, id, opts.Scope)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no live %s with id %s", kind, id)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(toView(rec))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", kind, rec.ID)
	if rec.ScopeID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  scope: %s\n", rec.ScopeID)
	}

	names := make([]string, 0, len(rec.Fields))
	for name := range rec.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := rec.Fields[name]
		if v == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: <null>\n", name)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", name, *v)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  created: %d by %s\n", rec.CreatedAt, rec.CreatedByDeviceID)
	fmt.Fprintf(cmd.OutOrStdout(), "  updated: %d by %s\n", rec.UpdatedAt, rec.UpdatedByDeviceID)
	return nil
}
