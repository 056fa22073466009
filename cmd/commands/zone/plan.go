package zone

import (
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/zoneup/internal/auditlog"
	"nathanbeddoewebdev/zoneup/internal/dns/plan"

	"github.com/spf13/cobra"
)

// PlanCommand returns the "zone plan" subcommand.
func PlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <zone>",
		Short: "Print the update script for the pending changes",
		Long: `Query the live zone and print the pending changes as an nsupdate
script. Nothing is sent to the server.

The output can be reviewed, stored, or piped to nsupdate directly.

Example:
  zoneup zone plan example.com`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := loadZone(args[0])
			if err != nil {
				return err
			}

			reconciler, closeAudit := newReconciler()
			defer closeAudit()

			result, err := reconciler.Check(cmd.Context(), zone)
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}

			recordDryRun(cmd, result.Plan)

			if result.Plan.IsEmpty() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Zone %s matches the declared records; nothing to do.\n", zone.Name)
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), reconciler.DryRun(result.Plan))
			return nil
		},
	}
}

// recordDryRun stores a dry-run audit entry, best effort.
func recordDryRun(cmd *cobra.Command, p plan.Plan) {
	repo, err := auditlog.Open()
	if err != nil {
		return
	}
	defer repo.Close()

	deletes, adds := p.Counts()
	_ = repo.Save(&auditlog.Entry{
		Command: cmd.CommandPath(),
		Args:    strings.Join(auditlog.SanitizeArgs(os.Args[1:]), " "),
		Zone:    p.Zone.Name,
		Server:  p.Zone.Server,
		DryRun:  true,
		Adds:    adds,
		Deletes: deletes,
		Outcome: auditlog.OutcomeSuccess,
	})
}
