package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Future-Scholars/paperlib-sync/internal/engine"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <batch.yaml>",
		Short: "Apply a payload batch to the library database",
		Long: `Apply a payload batch to the library database.

The batch file is schema-validated first; payloads are then dispatched in
order, one transaction each. Failures do not abort the batch - every
outcome is reported and the command exits non-zero if any payload failed.

Example:
  plsync apply changes.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runApply(opts *RootOptions, path string, cmd *cobra.Command) error {
	payloads, err := LoadBatch(path)
	if err != nil {
		return err
	}

	eng, closer, err := openEngine(opts)
	if err != nil {
		return err
	}
	defer closer()

	outcomes, err := eng.Apply(cmd.Context(), payloads)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return printOutcomesJSON(cmd, outcomes)
	}

	for _, o := range outcomes {
		status := "ok"
		if o.Err != nil {
			status = fmt.Sprintf("error: %v", o.Err)
		}
		target := string(o.Model)
		if o.Op == "link" && o.Link != nil {
			target = fmt.Sprintf("%s->%s", o.Link.PaperID, o.Link.TargetID)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s %s: %s\n", o.Index, o.Op, target, status)
	}

	if failed := engine.Failed(outcomes); len(failed) > 0 {
		return fmt.Errorf("%d of %d payloads failed", len(failed), len(outcomes))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d payloads\n", len(outcomes))
	return nil
}

func printOutcomesJSON(cmd *cobra.Command, outcomes []engine.Outcome) error {
	type jsonOutcome struct {
		Index int    `json:"index"`
		Op    string `json:"op"`
		Model string `json:"model,omitempty"`
		Error string `json:"error,omitempty"`
	}

	out := make([]jsonOutcome, len(outcomes))
	for i, o := range outcomes {
		out[i] = jsonOutcome{Index: o.Index, Op: string(o.Op), Model: string(o.Model)}
		if o.Err != nil {
			out[i].Error = o.Err.Error()
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if failed := engine.Failed(outcomes); len(failed) > 0 {
		return fmt.Errorf("%d of %d payloads failed", len(failed), len(outcomes))
	}
	return nil
}
