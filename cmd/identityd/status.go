// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/acornweb/identity/internal/config"
	"github.com/acornweb/identity/internal/store"
)

// ServiceStatus holds the status information reported by the status command.
type ServiceStatus struct {
	Database      string `json:"database"`
	SchemaVersion uint   `json:"schema_version"`
	SchemaDirty   bool   `json:"schema_dirty"`
	Error         string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
	timeout    time.Duration
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database connectivity and schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 5*time.Second, "connection timeout")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	status := gatherStatus(cmd.Context(), cfg.timeout)

	if cfg.jsonOutput {
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Printf("Database:       %s\n", status.Database)
	if status.Error != "" {
		cmd.Printf("Error:          %s\n", status.Error)
		return nil
	}
	if status.SchemaVersion == 0 {
		cmd.Println("Schema version: none applied")
		return nil
	}
	cmd.Printf("Schema version: %d (dirty: %v)\n", status.SchemaVersion, status.SchemaDirty)
	return nil
}

// gatherStatus pings the database and reads the schema version. Failures
// are reported in the status rather than returned; the command itself
// succeeds either way.
func gatherStatus(ctx context.Context, timeout time.Duration) ServiceStatus {
	status := ServiceStatus{Database: "unreachable"}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := store.Connect(connectCtx, cfg.DatabaseURL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer pool.Close()
	status.Database = "ok"

	migrator, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer func() { _ = migrator.Close() }()

	version, dirty, err := migrator.Version()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.SchemaVersion = version
	status.SchemaDirty = dirty
	return status
}
