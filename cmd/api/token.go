package main

import (
	"fmt"

	"github.com/ferrypratamaa-00/monii-sub001/internal/config"
	"github.com/ferrypratamaa-00/monii-sub001/internal/domain"
	jwtinfra "github.com/ferrypratamaa-00/monii-sub001/internal/infrastructure/jwt"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		userID int64
		role   string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID <= 0 {
				return fmt.Errorf("--user must be a positive id")
			}
			switch role {
			case domain.RoleUser, domain.RoleAdmin, domain.RoleService:
			default:
				return fmt.Errorf("unknown role %q", role)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			p, err := jwtinfra.NewProvider(cfg)
			if err != nil {
				return err
			}
			tok, err := p.Sign(userID, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id carried in the token")
	cmd.Flags().StringVar(&role, "role", domain.RoleUser, "role claim (user, admin, service)")
	return cmd
}
