package zone

import (
	"context"
	"errors"
	"fmt"
	"os"

	"nathanbeddoewebdev/zoneup/internal/dns/domain"
	"nathanbeddoewebdev/zoneup/internal/dns/services"
	"nathanbeddoewebdev/zoneup/internal/tui"
	"nathanbeddoewebdev/zoneup/internal/tui/styles"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ApplyCommand returns the "zone apply" subcommand.
func ApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <zone>",
		Short: "Apply the pending changes to the live zone",
		Long: `Query the live zone, compute the pending changes, and apply them as
one signed dynamic update. The whole plan is sent as a single
transaction: the server applies all of it or none of it.

An interactive review shows the changes before anything is sent;
--yes skips it for scripting. A failed apply leaves the live state
unknown; run "zoneup zone check" before retrying.

Examples:
  # Interactive review
  zoneup zone apply example.com

  # Print the update script without sending anything
  zoneup zone apply example.com --dry-run

  # Non-interactive (scripting)
  zoneup zone apply example.com --yes`,
		Args:         cobra.ExactArgs(1),
		RunE:         runApply,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("dry-run", false, "Print the update script instead of sending it")
	cmd.Flags().BoolP("yes", "y", false, "Apply without interactive review")

	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")

	zone, err := loadZone(args[0])
	if err != nil {
		return err
	}

	reconciler, closeAudit := newReconciler()
	defer closeAudit()

	result, err := checkWithSpinner(cmd, reconciler, zone.Name, func(ctx context.Context) (services.CheckResult, error) {
		return reconciler.Check(ctx, zone)
	})
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.WarningText.Render("warning: ")+w.String())
	}

	if result.Plan.IsEmpty() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.SuccessText.Render("✓"), zone.Name+" is already up to date")
		return nil
	}

	if dryRun {
		recordDryRun(cmd, result.Plan)
		fmt.Fprint(cmd.OutOrStdout(), reconciler.DryRun(result.Plan))
		return nil
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if !yes {
		if !interactive {
			return fmt.Errorf("no terminal available for review: pass --yes to apply")
		}
		if err := tui.RunPlanReview(result.Diff, result.Plan); err != nil {
			if errors.Is(err, tui.ErrReviewAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Apply cancelled; nothing was sent.")
				return nil
			}
			return err
		}
	}

	applyErr := applyWithSpinner(cmd, reconciler, zone.Name, result, interactive)
	if applyErr != nil {
		return describeApplyError(cmd, zone.Name, applyErr)
	}

	deletes, adds := result.Plan.Counts()
	fmt.Fprintf(cmd.OutOrStdout(), "%s Applied %d addition(s) and %d removal(s) to %s\n",
		styles.SuccessText.Render("✓"), adds, deletes, zone.Name)
	return nil
}

func applyWithSpinner(cmd *cobra.Command, reconciler *services.Reconciler, zoneName string, result services.CheckResult, interactive bool) error {
	ctx := cmd.Context()

	if !interactive {
		return reconciler.Apply(ctx, result.Plan)
	}

	accessible := os.Getenv("ACCESSIBLE") != ""
	var applyErr error
	spinErr := spinner.New().
		Title(fmt.Sprintf("Updating %s...", zoneName)).
		Accessible(accessible).
		Output(cmd.ErrOrStderr()).
		Action(func() {
			applyErr = reconciler.Apply(ctx, result.Plan)
		}).
		Run()
	if spinErr != nil {
		return spinErr
	}
	return applyErr
}

// describeApplyError adds a next-step hint per failure class before
// returning the error for a non-zero exit.
func describeApplyError(cmd *cobra.Command, zoneName string, err error) error {
	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		switch execErr.Outcome {
		case domain.OutcomeAuthFailure:
			fmt.Fprintln(cmd.ErrOrStderr(), "The server rejected the TSIG signature. Check the key name, algorithm, and stored secret (\"zoneup auth status\").")
		case domain.OutcomeConnectivityFailure:
			fmt.Fprintln(cmd.ErrOrStderr(), "Could not reach the server. The update may or may not have been applied; run \"zoneup zone check\" before retrying.")
		case domain.OutcomeServerRejected:
			fmt.Fprintln(cmd.ErrOrStderr(), "The server refused the update. Check the zone's update policy on the server.")
		}
	}
	return fmt.Errorf("apply to %s failed: %w", zoneName, err)
}
