package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/baharkarakas/debtme-backend/internal/app"
	"github.com/baharkarakas/debtme-backend/internal/config"
	"github.com/baharkarakas/debtme-backend/internal/db"
	"github.com/baharkarakas/debtme-backend/internal/otp"
)

func migrateCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded SQL migrations to DATABASE_URL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				for _, m := range db.Migrations() {
					fmt.Fprintln(cmd.OutOrStdout(), m)
				}
				return nil
			}
			cfg := config.Load()
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, 2)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()
			if err := db.RunMigrations(ctx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "print embedded migrations without connecting")
	return cmd
}

func createAdminCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account (password from DEBTME_ADMIN_PASSWORD)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := os.Getenv("DEBTME_ADMIN_PASSWORD")
			if password == "" {
				return errors.New("DEBTME_ADMIN_PASSWORD is not set")
			}
			cfg := config.Load()
			if cfg.Store == "memory" {
				return errors.New("create-admin needs a persistent store; set APP_STORE=postgres")
			}
			st, closeStore, err := app.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			u, err := app.Services(cfg, st, nil).Users.CreateAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin created: %s <%s>\n", u.ID, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSecretCmd() *cobra.Command {
	var issuer, account string
	cmd := &cobra.Command{
		Use:   "new-secret",
		Short: "Generate a provider secret and its otpauth URI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := otp.NewSecret()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "secret: %s\n", secret)
			if account != "" {
				uri, err := otp.ProvisioningURI(issuer, account, secret)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "uri:    %s\n", uri)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&issuer, "issuer", "DebtMe", "issuer shown by authenticator apps")
	cmd.Flags().StringVar(&account, "account", "", "account label; prints the otpauth URI when set")
	return cmd
}

func codeCmd() *cobra.Command {
	var secret string
	var at int64
	cmd := &cobra.Command{
		Use:   "code",
		Short: "Print the current one-time code for a hex secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if at > 0 {
				now = time.Unix(at, 0)
			}
			c, err := otp.GenerateHex(secret, now)
			if err != nil {
				return err
			}
			left := otp.StepSeconds - int(now.Unix()%otp.StepSeconds)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (valid %ds)\n", c, left)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "hex encoded provider secret")
	cmd.Flags().Int64Var(&at, "at", 0, "unix time to compute the code for (default now)")
	_ = cmd.MarkFlagRequired("secret")
	return cmd
}
