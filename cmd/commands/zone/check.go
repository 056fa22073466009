package zone

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"nathanbeddoewebdev/zoneup/internal/config"
	"nathanbeddoewebdev/zoneup/internal/dns/services"
	"nathanbeddoewebdev/zoneup/internal/tui"
	"nathanbeddoewebdev/zoneup/internal/tui/styles"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// errDrift makes "zone check" exit non-zero when the live zone differs
// from the declaration, without printing a redundant error line.
var errDrift = errors.New("zone drift detected")

// CheckCommand returns the "zone check" subcommand.
func CheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [zone]",
		Short: "Compare declared records against the live zone",
		Long: `Query the live zone and show how it differs from the declaration.

Exits with status 1 when the zone has drifted, which makes the command
usable from cron or CI.

Examples:
  zoneup zone check example.com
  zoneup zone check --all`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().Bool("all", false, "Check every declared zone")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if all == (len(args) == 1) {
		return fmt.Errorf("specify either a zone name or --all")
	}

	reconciler, closeAudit := newReconciler()
	defer closeAudit()

	if !all {
		zone, err := loadZone(args[0])
		if err != nil {
			printCheckError(cmd, err)
			return err
		}

		result, err := checkWithSpinner(cmd, reconciler, zone.Name, func(ctx context.Context) (services.CheckResult, error) {
			return reconciler.Check(ctx, zone)
		})
		if err != nil {
			printCheckError(cmd, err)
			return err
		}

		printCheckResult(cmd, zone.Name, result)
		if result.Diff.HasChanges() {
			return errDrift
		}
		return nil
	}

	return checkAll(cmd, reconciler)
}

// checkAll queries every declared zone concurrently and prints the
// results in config order once all checks finish.
func checkAll(cmd *cobra.Command, reconciler *services.Reconciler) error {
	cfg, err := config.Load()
	if err != nil {
		printCheckError(cmd, err)
		return err
	}
	if len(cfg.Zones) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No zones declared.")
		return nil
	}

	type outcome struct {
		result services.CheckResult
		err    error
	}

	var mu sync.Mutex
	outcomes := make(map[string]outcome, len(cfg.Zones))

	group, ctx := errgroup.WithContext(cmd.Context())
	group.SetLimit(4)
	for _, zone := range cfg.Zones {
		group.Go(func() error {
			result, err := reconciler.Check(ctx, zone)
			mu.Lock()
			outcomes[zone.Name] = outcome{result: result, err: err}
			mu.Unlock()
			return nil
		})
	}
	// Goroutines never return errors; failures are kept per zone.
	_ = group.Wait()

	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)

	drifted := false
	failed := false
	for _, name := range names {
		o := outcomes[name]
		if o.err != nil {
			failed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", styles.ErrorText.Render("✗"), name, o.err)
			continue
		}
		printCheckResult(cmd, name, o.result)
		if o.result.Diff.HasChanges() {
			drifted = true
		}
	}

	if failed {
		return fmt.Errorf("one or more zone checks failed")
	}
	if drifted {
		return errDrift
	}
	return nil
}

func printCheckError(cmd *cobra.Command, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), styles.ErrorText.Render("Error:")+" "+err.Error())
}

func checkWithSpinner(cmd *cobra.Command, reconciler *services.Reconciler, zoneName string, check func(context.Context) (services.CheckResult, error)) (services.CheckResult, error) {
	ctx := cmd.Context()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return check(ctx)
	}

	accessible := os.Getenv("ACCESSIBLE") != ""
	var result services.CheckResult
	var checkErr error
	spinErr := spinner.New().
		Title(fmt.Sprintf("Querying %s...", zoneName)).
		Accessible(accessible).
		Output(cmd.ErrOrStderr()).
		Action(func() {
			result, checkErr = check(ctx)
		}).
		Run()
	if spinErr != nil {
		return services.CheckResult{}, spinErr
	}
	return result, checkErr
}

func printCheckResult(cmd *cobra.Command, zoneName string, result services.CheckResult) {
	out := cmd.OutOrStdout()

	for _, w := range result.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.WarningText.Render("warning: ")+w.String())
	}

	if !result.Diff.HasChanges() {
		fmt.Fprintf(out, "%s %s\n", styles.SuccessText.Render("✓"), zoneName+" matches the declared records")
		return
	}

	creates, updates, deletes, _ := result.Diff.Summary()
	fmt.Fprintf(out, "%s %s: %d to add, %d to change, %d to remove\n",
		styles.WarningText.Render("!"), zoneName, creates, updates, deletes)
	fmt.Fprint(out, tui.RenderDiff(result.Diff))
}
