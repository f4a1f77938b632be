package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/service"
	"github.com/digitalgoods/storefront/internal/infrastructure/config"
	"github.com/digitalgoods/storefront/internal/infrastructure/restapi"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Ping the storefront API and report which identities it recognises",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}

			client, err := restapi.New(restapi.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}, zerolog.Nop())
			if err != nil {
				return err
			}
			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("api %s unreachable: %w", cfg.API.BaseURL, err)
			}

			st := service.NewSessionStore(client.Auth(), client.Admin(), zerolog.Nop()).Bootstrap(ctx)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "api:    %s reachable\n", cfg.API.BaseURL)
			fmt.Fprintf(out, "user:   %s\n", describeUser(st))
			fmt.Fprintf(out, "admin:  %s\n", describeAdmin(st))
			fmt.Fprintf(out, "access: %s\n", domain.DecideAdminAccess(st))
			return nil
		},
	}
}

func describeUser(st domain.SessionState) string {
	if st.User == nil {
		return "absent"
	}
	return st.User.Email
}

func describeAdmin(st domain.SessionState) string {
	if st.Admin == nil {
		return "absent"
	}
	return st.Admin.Username
}
