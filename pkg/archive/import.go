// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package archive

import (
	"bytes"
	stdctx "context"
	"log/slog"
	"os"

	"github.com/goccy/go-json"

	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/disirlog"
	"github.com/disir-project/disir/pkg/core/mold"
	"github.com/disir-project/disir/pkg/core/version"
	"github.com/disir-project/disir/pkg/serial"
)

// EntryStatus is the resolvability classification of one import
// candidate (spec §4.15 entry_status).
type EntryStatus int

const (
	StatusOK EntryStatus = iota
	StatusConflictingSemver
	StatusConflict
	StatusNoCanDo
	StatusConfigInvalid
)

func (s EntryStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusConflictingSemver:
		return "conflicting_semver"
	case StatusConflict:
		return "conflict"
	case StatusNoCanDo:
		return "no_can_do"
	case StatusConfigInvalid:
		return "config_invalid"
	default:
		return "unknown"
	}
}

// Option is a resolution chosen for one import candidate (spec §4.15
// resolve_entry).
type Option int

const (
	OptionDo Option = iota
	OptionUpdate
	OptionUpdateWithDiscard
	OptionForce
	OptionDiscard
)

func (o Option) String() string {
	switch o {
	case OptionDo:
		return "do"
	case OptionUpdate:
		return "update"
	case OptionUpdateWithDiscard:
		return "update_with_discard"
	case OptionForce:
		return "force"
	case OptionDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// validOptions is the spec §4.15 status x option validity matrix,
// exposed strictly as tabulated -- no implicit extra retry option.
var validOptions = map[EntryStatus]map[Option]bool{
	StatusOK:                {OptionDo: true, OptionForce: true, OptionDiscard: true},
	StatusConflictingSemver: {OptionUpdate: true, OptionUpdateWithDiscard: true, OptionForce: true, OptionDiscard: true},
	StatusConflict:          {OptionUpdate: true, OptionUpdateWithDiscard: true, OptionForce: true, OptionDiscard: true},
	StatusNoCanDo:           {OptionDiscard: true},
	StatusConfigInvalid:     {OptionDiscard: true},
}

// candidate is one entry under consideration during import.
type candidate struct {
	manifest ManifestEntry
	status   EntryStatus
	info     string
	decision Option
	resolved bool
	config   *context.Node // parsed config body, nil if config_invalid
}

// Import is an in-progress import, populated at Begin and driven
// entry-by-entry via EntryStatusAt/ResolveEntry to Finalize.
type Import struct {
	codec      serial.Codec
	candidates []*candidate
}

// ImportBegin opens archivePath and classifies every entry against the
// supplied mold resolver and existing-config lookup (spec §4.15 import
// begin -> (import, count)).
//
// moldFor resolves the mold that should validate an entry's group id;
// existingFor reports whether a config already exists for
// (groupID, entryID), used to classify "conflict".
func ImportBegin(
	codec serial.Codec, archivePath string,
	moldFor func(groupID string) (*mold.Mold, error),
	existingFor func(groupID, entryID string) (*context.Node, bool),
) (*Import, int, error) {
	data, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, 0, disirerr.Wrap(disirerr.FSError, err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, 0, disirerr.Wrap(disirerr.ConfigInvalid, err)
	}

	imp := &Import{codec: codec}
	for _, me := range m.Entries {
		imp.candidates = append(imp.candidates, classify(codec, me, moldFor, existingFor))
	}
	return imp, len(imp.candidates), nil
}

func classify(
	codec serial.Codec, me ManifestEntry,
	moldFor func(groupID string) (*mold.Mold, error),
	existingFor func(groupID, entryID string) (*context.Node, bool),
) *candidate {
	c := &candidate{manifest: me}

	mo, err := moldFor(me.GroupID)
	if err != nil || mo == nil {
		c.status = StatusNoCanDo
		c.info = "no mold available for group " + me.GroupID
		return c
	}

	cfg, err := codec.Unserialise(bytes.NewReader(me.Blob), mo)
	if err != nil {
		c.status = StatusConfigInvalid
		c.info = err.Error()
		return c
	}
	c.config = cfg

	if existing, ok := existingFor(me.GroupID, me.EntryID); ok && existing != nil {
		c.status = StatusConflict
		c.info = "an installed config already exists for this entry"
		return c
	}

	moldVersion := mo.Version()
	cfgVersion, _ := cfg.Version()
	if !version.Equal(moldVersion, cfgVersion) {
		c.status = StatusConflictingSemver
		c.info = "entry version " + cfgVersion.String() + " differs from installed mold version " + moldVersion.String()
		return c
	}

	c.status = StatusOK
	return c
}

// EntryStatusAt returns the classification of candidate i (spec §4.15
// entry_status).
func (imp *Import) EntryStatusAt(i int) (entryID, groupID string, v version.Version, status EntryStatus, info string, err error) {
	if i < 0 || i >= len(imp.candidates) {
		return "", "", version.Version{}, 0, "", disirerr.New(disirerr.InvalidArgument, "index out of range")
	}
	c := imp.candidates[i]
	return c.manifest.EntryID, c.manifest.GroupID, c.manifest.Version, c.status, c.info, nil
}

// ResolveEntry records the chosen option for candidate i, rejecting any
// option not permitted for that candidate's status by the spec §4.15
// validity matrix.
func (imp *Import) ResolveEntry(i int, option Option) error {
	if i < 0 || i >= len(imp.candidates) {
		return disirerr.New(disirerr.InvalidArgument, "index out of range")
	}
	c := imp.candidates[i]
	if !validOptions[c.status][option] {
		return disirerr.Newf(disirerr.NoCanDo,
			"option %s is not valid for status %s", option, c.status)
	}
	c.decision = option
	c.resolved = true
	return nil
}

// ReportLine is one per-entry outcome in the finalize report (spec
// §4.15 finalize -> report).
type ReportLine struct {
	EntryID  string
	GroupID  string
	Status   EntryStatus
	Decision Option
	Outcome  string
}

// Finalize commits (do) or drops (discard) every resolved decision
// (spec §4.15 finalize). Unresolved candidates are treated as discard.
func (imp *Import) Finalize(
	action Option,
	install func(groupID, entryID string, cfg *context.Node, decision Option) error,
) ([]ReportLine, error) {
	if action != OptionDo && action != OptionDiscard {
		return nil, disirerr.New(disirerr.InvalidArgument, "finalize action must be do or discard")
	}
	var report []ReportLine
	for _, c := range imp.candidates {
		line := ReportLine{
			EntryID:  c.manifest.EntryID,
			GroupID:  c.manifest.GroupID,
			Status:   c.status,
			Decision: c.decision,
		}
		if action == OptionDiscard || !c.resolved || c.decision == OptionDiscard {
			line.Outcome = "discarded"
			report = append(report, line)
			continue
		}
		if err := install(c.manifest.GroupID, c.manifest.EntryID, c.config, c.decision); err != nil {
			line.Outcome = "failed: " + err.Error()
			report = append(report, line)
			continue
		}
		line.Outcome = "installed"
		report = append(report, line)
	}
	disirlog.Info(stdctx.Background(), "import finalized",
		slog.String("action", action.String()), slog.Int("entries", len(report)))
	return report, nil
}
