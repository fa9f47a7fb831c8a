package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nfrund/student-portal/internal/auth"
)

var (
	createUsername string
	createEmail    string
	createPassword string
)

var createUserCmd = &cobra.Command{
	Use:   "createuser",
	Short: "Create a user account",
	Long: `Create a user account without going through the registration form.
The password validators still apply.

Example:
  portal createuser --username alice --email alice@example.com --password 's3cure-Passphrase'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer deps.Close()

		if err := deps.Migrate(cmd.Context()); err != nil {
			return err
		}
		return createUser(cmd.Context(), deps.Auth, cmd.OutOrStdout(), createUsername, createEmail, createPassword)
	},
}

func createUser(ctx context.Context, svc *auth.Service, out io.Writer, username, email, password string) error {
	if username == "" || password == "" {
		return errors.New("--username and --password are required")
	}

	user, err := svc.CreateUser(ctx, username, email, password)
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", username, err)
	}
	fmt.Fprintf(out, "Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}

func init() {
	createUserCmd.Flags().StringVar(&createUsername, "username", "", "username of the new account")
	createUserCmd.Flags().StringVar(&createEmail, "email", "", "email address used for password resets")
	createUserCmd.Flags().StringVar(&createPassword, "password", "", "password of the new account")
	rootCmd.AddCommand(createUserCmd)
}
