package auth

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "auth" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage TSIG key secrets",
		Long: `Manage TSIG key secrets stored in the local keychain.

Secrets are looked up by the key name declared in the zone config.
They are never written to the config file or the audit log.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(StatusCommand())
	cmd.AddCommand(LogoutCommand())

	return cmd
}
