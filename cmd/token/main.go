// Command token mints a bearer token for local testing of the API.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/farellandr/echallan/internal/identity"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		secret string
		phone  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <uid>",
		Short: "Mint a JWT for a user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			tokens, err := identity.NewJWTManager(secret, ttl)
			if err != nil {
				return err
			}

			token, expiresAt, err := tokens.Issue(args[0], phone)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to $JWT_SECRET)")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number to embed in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
