// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/disir-project/disir/internal/testfixtures"
	"github.com/disir-project/disir/pkg/archive"
	"github.com/disir-project/disir/pkg/serial/yamlcodec"
)

var exportEntryID string

var exportCmd = &cobra.Command{
	Use:   "export <dest-archive>",
	Short: "Export the sample config, written to the in-memory plugin under --entry, into an archive file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func runExport(_ *cobra.Command, args []string) error {
	in, _, err := newInstance()
	if err != nil {
		return err
	}
	ctx := context.Background()

	m, err := testfixtures.SampleMold()
	if err != nil {
		return fmt.Errorf("building sample mold: %w", err)
	}
	cfg, err := testfixtures.SampleConfig(m)
	if err != nil {
		return fmt.Errorf("building sample config: %w", err)
	}
	p, err := in.Registry().Get(groupFlag)
	if err != nil {
		return err
	}
	if err := p.ConfigWrite(ctx, exportEntryID, cfg); err != nil {
		return err
	}

	a, err := archive.ExportBegin(yamlcodec.New(), "")
	if err != nil {
		return err
	}
	if err := a.AppendEntry(groupFlag, exportEntryID, cfg); err != nil {
		return err
	}
	if err := archive.Finalize(a, args[0]); err != nil {
		return err
	}
	fmt.Printf("exported 1 entry from group %q to %s\n", groupFlag, args[0])
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportEntryID, "entry", "sample", "entry id to export")
	rootCmd.AddCommand(exportCmd)
}
