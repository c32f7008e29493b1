// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/disir-project/disir/internal/testfixtures"
	"github.com/disir-project/disir/pkg/core/query"
	"github.com/disir-project/disir/pkg/serial/yamlcodec"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <config.yaml>",
	Short: "Print a config's elements in insertion order",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(_ *cobra.Command, args []string) error {
	// A concrete mold-description codec is out of scope (spec §1
	// excludes concrete TOML/JSON serialisers); the CLI demonstrates
	// the config/mold/codec wiring against the same sample schema used
	// by the test suite rather than reading an ad-hoc mold file format.
	m, err := testfixtures.SampleMold()
	if err != nil {
		return fmt.Errorf("building sample mold: %w", err)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %q: %w", args[0], err)
	}
	defer f.Close()

	codec := yamlcodec.New()
	cfg, err := codec.Unserialise(f, m)
	if err != nil {
		return fmt.Errorf("unserialising %q: %w", args[0], err)
	}
	elements, err := query.Elements(cfg)
	if err != nil {
		return err
	}
	for _, e := range elements {
		fmt.Printf("%s %s\n", e.Kind(), e.ElementName())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
