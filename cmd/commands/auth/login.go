package auth

import (
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/zoneup/internal/services/auth"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <key-name>",
		Short: "Store a TSIG secret for a key",
		Long: `Store a TSIG secret for a key using the local keychain.

The key name must match the key_name declared for the zone in the
config file. The secret is the base64 value from the BIND key file.

Example:
  zoneup auth login tsig-example.com.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			keyName := strings.TrimSpace(args[0])
			if keyName == "" {
				fmt.Fprintln(os.Stderr, "key name is required")
				return
			}

			secret, err := cmd.Flags().GetString("secret")
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}

			secret = strings.TrimSpace(secret)
			if secret == "" {
				fmt.Fprint(os.Stdout, "Enter TSIG secret: ")
				bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stdout)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					return
				}
				secret = strings.TrimSpace(string(bytes))
			}

			if secret == "" {
				fmt.Fprintln(os.Stderr, "secret cannot be empty")
				return
			}

			store := auth.DefaultStore()
			if err := store.SetSecret(keyName, secret); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}

			fmt.Fprintf(os.Stdout, "Saved secret for key %s\n", keyName)
		},
	}

	cmd.Flags().String("secret", "", "TSIG secret (optional, overrides prompt)")

	return cmd
}
