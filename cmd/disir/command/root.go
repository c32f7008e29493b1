// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the disir
// CLI. Commands are organized using the cobra library, mirroring the
// teacher's cmd/caweb/command layout: one file per subcommand, a
// shared root command holding persistent flags.
//
//	disir dump <config.yaml>
//	disir verify <config.yaml>
//	disir export <dest-archive> [-g group] [--entry id]
//	disir import <archive> [--discard] [-g group]
//
// Grounded on original_source/cli/cli.cc's dispatch table for the
// command set, adapted to cobra's subcommand-per-file convention.
package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/disir-project/disir/pkg/instance"
	"github.com/disir-project/disir/pkg/plugin"
	"github.com/disir-project/disir/pkg/plugin/memplugin"
)

var groupFlag string

var rootCmd = &cobra.Command{
	Use:   "disir",
	Short: "Versioned, schema-validated configuration tool",
	Long: `disir is a thin command-line wrapper over the Disir
configuration library: a versioned, schema-validated config and mold
(schema) engine with an update and archive engine.`,
}

// newInstance builds a host instance backed by a single in-memory
// reference plugin, for smoke-testing the CLI without a real backing
// store (spec Non-goals excludes the plugin loader, not the contract
// itself).
func newInstance() (*instance.Instance, *memplugin.Plugin, error) {
	reg := plugin.NewRegistry()
	p := memplugin.New(groupFlag)
	if err := reg.Register(p); err != nil {
		return nil, nil, err
	}
	in, err := instance.New(&instance.Options{}, reg)
	if err != nil {
		return nil, nil, err
	}
	return in, p, nil
}

// Execute runs the root command, exiting 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&groupFlag, "group", "g", "default", "plugin group id")
}
