package zone

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/zoneup/internal/config"

	"github.com/spf13/cobra"
)

// ListCommand returns the "zone list" subcommand.
func ListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List declared zones",
		Long: `List the zones declared in the config file.

Example:
  zoneup zone list`,
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if len(cfg.Zones) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No zones declared. Run \"zoneup config init\" to get started.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ZONE\tSERVER\tKEY\tRECORDS\tDEFAULT TTL")
			fmt.Fprintln(w, "----\t------\t---\t-------\t-----------")
			for _, z := range cfg.Zones {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
					z.Name, z.Server, z.KeyName, len(z.Records), z.ResolvedDefaultTTL())
			}
			w.Flush()
			return nil
		},
	}
}
