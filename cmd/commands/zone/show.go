package zone

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"

	"github.com/spf13/cobra"
)

// ShowCommand returns the "zone show" subcommand.
func ShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <zone>",
		Short: "Show the declared records for a zone",
		Long: `Show the declared records for a zone, including resolved TTLs.

Example:
  zoneup zone show example.com`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := loadZone(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Zone:        %s\n", zone.Name)
			fmt.Fprintf(out, "Server:      %s\n", zone.Server)
			fmt.Fprintf(out, "Key:         %s (%s)\n", zone.KeyName, zone.KeyAlgorithm)
			fmt.Fprintf(out, "Default TTL: %d\n", zone.ResolvedDefaultTTL())
			if zone.Notes != "" {
				fmt.Fprintf(out, "Notes:       %s\n", zone.Notes)
			}
			fmt.Fprintln(out)

			if len(zone.Records) == 0 {
				fmt.Fprintln(out, "No records declared.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "LABEL\tTYPE\tVALUE\tTTL\tEXTRAS")
			fmt.Fprintln(w, "-----\t----\t-----\t---\t------")
			for _, r := range zone.Records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					r.Label, r.Type, r.Value, r.ResolveTTL(zone.ResolvedDefaultTTL()), extrasColumn(r))
			}
			w.Flush()
			return nil
		},
	}
}

func extrasColumn(r domain.Record) string {
	switch {
	case r.MX != nil:
		return fmt.Sprintf("preference=%d", r.MX.Preference)
	case r.SRV != nil:
		return fmt.Sprintf("priority=%d weight=%d port=%d", r.SRV.Priority, r.SRV.Weight, r.SRV.Port)
	default:
		return "-"
	}
}
