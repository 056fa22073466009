package zone

import (
	"fmt"

	"nathanbeddoewebdev/zoneup/internal/auditlog"
	"nathanbeddoewebdev/zoneup/internal/config"
	"nathanbeddoewebdev/zoneup/internal/dns/domain"
	"nathanbeddoewebdev/zoneup/internal/dns/query"
	"nathanbeddoewebdev/zoneup/internal/dns/services"
	"nathanbeddoewebdev/zoneup/internal/dns/update"
	"nathanbeddoewebdev/zoneup/internal/services/auth"
	"nathanbeddoewebdev/zoneup/internal/util"

	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "zone" Cobra command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Compare and apply declared zone records",
		Long: `Compare declared records against the live zone and apply the
difference as a signed dynamic update.

Zones are declared in the config file; TSIG secrets come from the
local keychain (see "zoneup auth login").`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(AddRecordCommand())
	cmd.AddCommand(CheckCommand())
	cmd.AddCommand(PlanCommand())
	cmd.AddCommand(ApplyCommand())

	return cmd
}

// newReconciler wires the query, update, and audit layers together. The
// audit log is best effort: a repository that fails to open downgrades
// to a reconciler without history rather than blocking zone work.
func newReconciler() (*services.Reconciler, func()) {
	store := auth.DefaultStore()
	secrets := func(keyName string) (string, error) {
		return store.GetSecret(keyName)
	}

	q := query.New(query.NewResolver(query.DefaultLookupTimeout))
	executor := update.NewExecutor(update.NewClient(secrets, update.DefaultSubmitTimeout))

	repo, err := auditlog.Open()
	if err != nil {
		return services.New(q, executor), func() {}
	}
	return services.New(q, executor, services.WithAudit(repo)), func() { repo.Close() }
}

// loadZone fetches one declared zone from the config file. The name is
// normalized so "Example.COM." still finds "example.com".
func loadZone(name string) (domain.Zone, error) {
	cfg, err := config.Load()
	if err != nil {
		return domain.Zone{}, fmt.Errorf("failed to load config: %w", err)
	}
	zone, err := cfg.Zone(util.NormalizeZoneName(name))
	if err != nil {
		return domain.Zone{}, err
	}
	return zone, nil
}
