package config

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the zoneup configuration file",
		Long: "View and bootstrap the zone declaration file.\n\n" +
			"Zones and their records are stored at ~/.config/zoneup/config.yaml.\n" +
			"TSIG secrets are never stored there; use \"zoneup auth login\".",
	}

	cmd.AddCommand(InitCommand())
	cmd.AddCommand(PathCommand())

	return cmd
}
