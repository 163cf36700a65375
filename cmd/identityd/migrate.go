// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/acornweb/identity/internal/config"
	"github.com/acornweb/identity/internal/store"
)

// NewMigrateCmd creates the migrate subcommand and its up/down/status
// children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  `Apply, roll back, or inspect the identity schema migrations.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (destructive)",
		Long:  `Roll back every migration, dropping all identity tables and their data.`,
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		RunE:  runMigrateStatus,
	})

	return cmd
}

// newMigrator loads config and opens a migrator against the configured
// database.
func newMigrator() (*store.Migrator, error) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return nil, err
	}
	return store.NewMigrator(cfg.DatabaseURL)
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	migrator, err := newMigrator()
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	cmd.Println("Applying migrations...")
	if err := migrator.Up(); err != nil {
		return err
	}
	cmd.Println("Migrations applied")
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	migrator, err := newMigrator()
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	cmd.Println("Rolling back migrations...")
	if err := migrator.Down(); err != nil {
		return err
	}
	cmd.Println("Migrations rolled back")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	migrator, err := newMigrator()
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		cmd.Println("Schema version: none applied")
		return nil
	}
	cmd.Printf("Schema version: %d (dirty: %v)\n", version, dirty)
	return nil
}
