package audit

import "github.com/spf13/cobra"

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View and manage the local change history",
		Long: "View a local audit trail of zone operations and prune old entries.\n\n" +
			"Audit history is stored locally in ~/.config/zoneup/zoneup.db.\n" +
			"It records plan counts and outcomes, never TSIG secrets.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
