package zone

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/zoneup/internal/config"
	"nathanbeddoewebdev/zoneup/internal/dns/domain"
	"nathanbeddoewebdev/zoneup/internal/tui"
	"nathanbeddoewebdev/zoneup/internal/util"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// AddRecordCommand returns the "zone add-record" subcommand.
func AddRecordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-record <zone>",
		Short: "Declare a new record for a zone",
		Long: `Declare a new record for a zone in the config file.

Without flags an interactive form walks through the fields. The record
is validated and saved to the config; run "zoneup zone apply" to push it.

Examples:
  # Interactive form
  zoneup zone add-record example.com

  # Non-interactive (scripting)
  zoneup zone add-record example.com --label www --type A --value 203.0.113.10
  zoneup zone add-record example.com --label @ --type MX --value mail.example.com --preference 10`,
		Args:         cobra.ExactArgs(1),
		RunE:         runAddRecord,
		SilenceUsage: true,
	}

	cmd.Flags().String("label", "", "Record label, or @ for the zone apex")
	cmd.Flags().String("type", "", "Record type (A, AAAA, CNAME, MX, TXT, SRV, NS, CAA)")
	cmd.Flags().String("value", "", "Record value")
	cmd.Flags().Int("ttl", 0, "TTL in seconds (0 inherits the zone default)")
	cmd.Flags().Int("preference", 0, "MX preference (MX records only)")
	cmd.Flags().Int("priority", 0, "SRV priority (SRV records only)")
	cmd.Flags().Int("weight", 0, "SRV weight (SRV records only)")
	cmd.Flags().Int("port", 0, "SRV port (SRV records only)")

	return cmd
}

func runAddRecord(cmd *cobra.Command, args []string) error {
	zoneName := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	zone, err := cfg.Zone(util.NormalizeZoneName(zoneName))
	if err != nil {
		return err
	}

	label, _ := cmd.Flags().GetString("label")
	rtype, _ := cmd.Flags().GetString("type")
	value, _ := cmd.Flags().GetString("value")

	var record domain.Record
	if label == "" && rtype == "" && value == "" {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("no terminal available: pass --label, --type, and --value")
		}
		record, err = tui.RunRecordForm(zone)
		if err != nil {
			if errors.Is(err, tui.ErrRecordFormAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Record creation cancelled.")
				return nil
			}
			return err
		}
	} else {
		record, err = recordFromFlags(cmd, label, rtype, value)
		if err != nil {
			return err
		}
	}

	zone.Records = append(zone.Records, record)
	if err := cfg.UpdateZone(zone.Name, zone); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Declared %s %s %s in zone %s\n", record.Label, record.Type, record.Value, zone.Name)
	fmt.Fprintln(cmd.OutOrStdout(), "Run \"zoneup zone apply\" to push the change.")
	return nil
}

func recordFromFlags(cmd *cobra.Command, label, rtype, value string) (domain.Record, error) {
	if label == "" || rtype == "" || value == "" {
		return domain.Record{}, fmt.Errorf("--label, --type, and --value are all required in non-interactive mode")
	}

	ttl, _ := cmd.Flags().GetInt("ttl")
	recordType := domain.RecordType(strings.ToUpper(strings.TrimSpace(rtype)))

	var mx *domain.MXData
	var srv *domain.SRVData
	switch recordType {
	case domain.RecordTypeMX:
		preference, _ := cmd.Flags().GetInt("preference")
		mx = &domain.MXData{Preference: preference}
	case domain.RecordTypeSRV:
		priority, _ := cmd.Flags().GetInt("priority")
		weight, _ := cmd.Flags().GetInt("weight")
		port, _ := cmd.Flags().GetInt("port")
		srv = &domain.SRVData{Priority: priority, Weight: weight, Port: port}
	}

	return domain.NewRecord(strings.TrimSpace(label), recordType, strings.TrimSpace(value), ttl, mx, srv)
}
