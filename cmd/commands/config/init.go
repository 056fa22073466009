package config

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/zoneup/internal/config"

	"github.com/spf13/cobra"
)

// InitCommand returns the "config init" command.
func InitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Write a starter configuration file with an example zone.

Fails if a configuration file already exists unless --overwrite is given.

Examples:
  zoneup config init
  zoneup config init --overwrite`,
		Args:         cobra.ExactArgs(0),
		RunE:         runInit,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("overwrite", false, "Replace an existing configuration file")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	path, err := config.Path()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", path)
	}

	cfg := config.Sample()
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote starter config to %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit the zone declarations, then run \"zoneup zone check\" to compare against the live zone.")
	return nil
}
