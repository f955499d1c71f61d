package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <batch.yaml>",
		Short: "Validate a payload batch without applying it",
		Long: `Validate a payload batch without applying it.

Checks the file against the payload schema and the envelope contract.
Nothing touches the database.

Example:
  plsync validate changes.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			payloads, err := LoadBatch(args[0])
			if err != nil {
				return err
			}
			for i, p := range payloads {
				if err := p.Validate(); err != nil {
					return fmt.Errorf("payload %d: %w", i, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d payloads, all valid\n", args[0], len(payloads))
			return nil
		},
	}

	return cmd
}
