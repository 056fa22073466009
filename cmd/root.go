package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"nathanbeddoewebdev/zoneup/cmd/commands/audit"
	"nathanbeddoewebdev/zoneup/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/zoneup/cmd/commands/config"
	"nathanbeddoewebdev/zoneup/cmd/commands/zone"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "zoneup",
		Short: "A CLI tool for managing DNS zones via dynamic updates",
		Long: `zoneup keeps authoritative DNS zones in sync with record declarations
stored in a local YAML file. It queries the live zone, diffs it against
the declared records, and applies the changes as a single RFC 2136
dynamic update signed with a TSIG key.

Quick start:
  zoneup config init               # Write a starter config
  zoneup auth login example-key    # Store a TSIG secret
  zoneup zone check example.com    # Show drift between config and live zone
  zoneup zone apply example.com    # Push the changes`,
	}

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(zone.NewCommand())
	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(versionCommand())

	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the zoneup version",
		Run: func(cmd *cobra.Command, args []string) {
			version := "devel"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			}
			fmt.Fprintf(cmd.OutOrStdout(), "zoneup %s\n", version)
		},
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
