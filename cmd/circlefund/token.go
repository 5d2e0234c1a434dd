package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/circlefund/internal/auth"
)

func tokenCommand() *cobra.Command {
	var ttl time.Duration
	c := &cobra.Command{
		Use:   "token <principal>",
		Short: "Issue a bearer token for a principal",
		Long:  "Issue a bearer token signed with CIRCLEFUND_JWT_SECRET asserting the given principal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			secret := os.Getenv("CIRCLEFUND_JWT_SECRET")
			if secret == "" {
				return errors.New("CIRCLEFUND_JWT_SECRET is not set")
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), token)
			return nil
		},
	}
	c.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return c
}
