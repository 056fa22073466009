package auth

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/zoneup/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout <key-name>",
		Short: "Remove a stored TSIG secret",
		Long: `Remove a stored TSIG secret from the local keychain.

Example:
  zoneup auth logout tsig-example.com.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyName := strings.TrimSpace(args[0])
			if keyName == "" {
				return fmt.Errorf("key name is required")
			}

			store := auth.DefaultStore()
			if err := store.DeleteSecret(keyName); err != nil {
				if errors.Is(err, auth.ErrSecretNotFound) {
					fmt.Fprintf(cmd.OutOrStdout(), "No secret stored for key %s\n", keyName)
					return nil
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed secret for key %s\n", keyName)
			return nil
		},
	}
}
