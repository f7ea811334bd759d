// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MemberChat Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the memberchat CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memberchat",
		Short: "memberchat - member registration and group chat server",
		Long: `memberchat is an HTTP service for member registration, token
authentication, and a bounded in-memory group chat log.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}
