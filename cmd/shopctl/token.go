package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-storefront/internal/httpx"
)

// tokenCmd signs a customer bearer token with JWT_SECRET, handy for local checkout testing.
func tokenCmd() *cobra.Command {
	var (
		customer string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a customer bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := &httpx.Authenticator{Secret: []byte(cfg.JWTSecret)}
			tok, err := a.Issue(customer, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&customer, "customer", "", "customer identity (sub claim)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}
