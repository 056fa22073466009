package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/zoneup/internal/config"
	"nathanbeddoewebdev/zoneup/internal/services/auth"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which zone keys have stored secrets",
		Long: `Show which TSIG keys declared in the config have stored secrets.

Example:
  zoneup auth status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.DefaultStore()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if len(cfg.Zones) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No zones configured.")
				return nil
			}

			// Zones can share a key; report each key once.
			seen := map[string]bool{}
			for _, zone := range cfg.Zones {
				keyName := auth.NormalizeKeyName(zone.KeyName)
				if seen[keyName] {
					continue
				}
				seen[keyName] = true

				_, err := store.GetSecret(zone.KeyName)
				switch {
				case err == nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: secret stored\n", zone.KeyName)
				case errors.Is(err, auth.ErrSecretNotFound):
					fmt.Fprintf(cmd.OutOrStdout(), "%s: no secret\n", zone.KeyName)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", zone.KeyName, err)
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
