// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the identityd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identityd",
		Short: "identityd - Acorn identity and credential service",
		Long: `identityd manages user accounts for the Acorn platform: registration,
password authentication, session principal resolution, email verification
codes, and password reset tokens.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
