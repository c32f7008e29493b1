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
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/validator"
	"github.com/disir-project/disir/pkg/serial/yamlcodec"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <config.yaml>",
	Short: "Validate a config against the sample schema, reporting invalid nodes",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func runVerify(_ *cobra.Command, args []string) error {
	m, err := testfixtures.SampleMold()
	if err != nil {
		return fmt.Errorf("building sample mold: %w", err)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %q: %w", args[0], err)
	}
	defer f.Close()

	cfg, err := yamlcodec.New().Unserialise(f, m)
	if cfg == nil {
		return fmt.Errorf("unserialising %q: %w", args[0], err)
	}

	result := validator.Validate(cfg)
	if result.Status == disirerr.OK {
		fmt.Println("ok")
		return nil
	}
	fmt.Printf("invalid: worst status %s\n", result.Status)
	for _, n := range result.Invalid {
		fmt.Printf("  %s: %s\n", n.ID(), n.ErrorMessage())
	}
	return fmt.Errorf("config failed validation")
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
