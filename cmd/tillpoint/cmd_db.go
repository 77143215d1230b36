package main

import (
	"github.com/spf13/cobra"
	"github.com/tillworks/tillpoint/config"
	"github.com/tillworks/tillpoint/database/seeders"
	"github.com/tillworks/tillpoint/pkg/database"
	"github.com/tillworks/tillpoint/pkg/migration"
)

func withDB(run func() error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if err := database.Connect(); err != nil {
			return err
		}
		return run()
	}
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending migrations",
	RunE: withDB(func() error {
		return migration.New(database.DB).Run()
	}),
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last migration batch",
	RunE: withDB(func() error {
		return migration.New(database.DB).Rollback()
	}),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of every migration",
	RunE: withDB(func() error {
		return migration.New(database.DB).Status()
	}),
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with an admin user and demo catalogue",
	RunE: withDB(func() error {
		return seeders.Run(database.DB)
	}),
}

func init() {
	rootCmd.AddCommand(migrateCmd, migrateRollbackCmd, migrateStatusCmd, seedCmd)
}
