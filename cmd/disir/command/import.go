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
	dcontext "github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/mold"
	"github.com/disir-project/disir/pkg/serial/yamlcodec"
)

var importDiscard bool

var importCmd = &cobra.Command{
	Use:   "import <archive>",
	Short: "Import an archive into the in-memory plugin: entries with status ok are installed, all others discarded",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(_ *cobra.Command, args []string) error {
	in, _, err := newInstance()
	if err != nil {
		return err
	}
	ctx := context.Background()
	p, err := in.Registry().Get(groupFlag)
	if err != nil {
		return err
	}

	m, err := testfixtures.SampleMold()
	if err != nil {
		return fmt.Errorf("building sample mold: %w", err)
	}

	moldFor := func(string) (*mold.Mold, error) { return m, nil }
	existingFor := func(groupID, entryID string) (*dcontext.Node, bool) {
		cfg, err := p.ConfigRead(ctx, entryID, nil)
		return cfg, err == nil
	}

	imp, count, err := archive.ImportBegin(yamlcodec.New(), args[0], moldFor, existingFor)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		_, _, _, status, info, err := imp.EntryStatusAt(i)
		if err != nil {
			return err
		}
		fmt.Printf("entry %d: %s (%s)\n", i, status, info)
		switch status {
		case archive.StatusOK:
			if err := imp.ResolveEntry(i, archive.OptionDo); err != nil {
				return err
			}
		default:
			if err := imp.ResolveEntry(i, archive.OptionDiscard); err != nil {
				return err
			}
		}
	}

	action := archive.OptionDo
	if importDiscard {
		action = archive.OptionDiscard
	}
	report, err := imp.Finalize(action, func(groupID, entryID string, cfg *dcontext.Node, decision archive.Option) error {
		return p.ConfigWrite(ctx, entryID, cfg)
	})
	if err != nil {
		return err
	}
	for _, line := range report {
		fmt.Printf("%s/%s: %s -> %s\n", line.GroupID, line.EntryID, line.Decision, line.Outcome)
	}
	return nil
}

func init() {
	importCmd.Flags().BoolVar(&importDiscard, "discard", false, "discard every resolved decision instead of committing")
	rootCmd.AddCommand(importCmd)
}
