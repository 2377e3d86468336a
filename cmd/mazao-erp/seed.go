package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/HassanMunene/mazao-erp/internal/auth"
	"github.com/HassanMunene/mazao-erp/internal/config"
	"github.com/HassanMunene/mazao-erp/internal/db"
	"github.com/HassanMunene/mazao-erp/internal/store"
)

// newSeedAdminCmd creates the first ADMIN account. Farmer accounts come from
// self-signup; admins are only ever created here or by another admin.
func newSeedAdminCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an ADMIN account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			if name == "" {
				name = "Administrator"
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			users := store.NewUserStore(database)
			admin, err := users.Create(cmd.Context(), email, hash, store.RoleAdmin, name, nil, nil)
			if err != nil {
				return err
			}

			log.Printf("admin %s created (id %s)", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&name, "name", "", "admin full name")
	return cmd
}
