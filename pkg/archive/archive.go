// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package archive implements the Disir archive engine (spec §4.15):
// export/import bundles of (group_id, entry_id, version) configs, with
// a strict per-status x per-option validity matrix on import.
//
// Grounded on original_source/include/disir/archive.h for the exact
// operation set (export_begin/append_group/append_entry/finalize,
// import begin/entry_status/resolve_entry/finalize) and on the
// teacher's write-new-file-then-os.Rename idiom
// (pkg/adapter/config/cfg1/cfg1.go's ConnectionPool/pgpass handling)
// for atomic finalize.
package archive

import (
	stdctx "context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/disirlog"
	"github.com/disir-project/disir/pkg/core/version"
	"github.com/disir-project/disir/pkg/serial"
)

// ManifestEntry is one (group_id, entry_id, version) record in an
// archive's bookkeeping index (spec §6 "Archive layout").
type ManifestEntry struct {
	GroupID string          `json:"group_id"`
	EntryID string          `json:"entry_id"`
	Version version.Version `json:"version"`
	// Blob is the serialised config body produced by the codec used at
	// append time; opaque to the archive itself.
	Blob []byte `json:"blob"`
}

// manifest is the JSON-encoded bookkeeping index persisted inside an
// archive (goccy/go-json, the teacher's fast JSON encoder, used here
// for the archive's own index rather than for config bodies).
type manifest struct {
	Entries []ManifestEntry `json:"entries"`
}

// Archive is an in-progress export, populated by AppendEntry/
// AppendGroup and committed (or discarded) by Finalize.
type Archive struct {
	codec   serial.Codec
	entries []ManifestEntry
	seen    map[string]bool // "group/entry" dedup set
}

// ExportBegin starts a new (or reopens an existing) archive for export
// (spec §4.15 export begin). archivePath == "" starts a new archive.
func ExportBegin(codec serial.Codec, archivePath string) (*Archive, error) {
	a := &Archive{codec: codec, seen: make(map[string]bool)}
	if archivePath == "" {
		return a, nil
	}
	existing, err := loadManifest(archivePath)
	if err != nil {
		return nil, disirerr.Wrap(disirerr.FSError, err)
	}
	a.entries = existing.Entries
	for _, e := range a.entries {
		a.seen[key(e.GroupID, e.EntryID)] = true
	}
	return a, nil
}

func key(group, entry string) string { return group + "/" + entry }

// AppendEntry adds one config to the archive (spec §4.15 append_entry),
// failing exists if already present.
func (a *Archive) AppendEntry(groupID, entryID string, cfg *context.Node) error {
	k := key(groupID, entryID)
	if a.seen[k] {
		return disirerr.Newf(disirerr.Exists, "entry %q already in archive group %q", entryID, groupID)
	}
	v, err := cfg.Version()
	if err != nil {
		return err
	}
	var buf bufferWriter
	if err := a.codec.Serialise(&buf, cfg); err != nil {
		return disirerr.Wrap(disirerr.FSError, err)
	}
	a.entries = append(a.entries, ManifestEntry{
		GroupID: groupID,
		EntryID: entryID,
		Version: v,
		Blob:    buf.Bytes(),
	})
	a.seen[k] = true
	return nil
}

// AppendGroup adds every config in configs (all believed to belong to
// groupID) to the archive (spec §4.15 append_group), failing exists if
// the group already has any entry in the archive.
func (a *Archive) AppendGroup(groupID string, configs map[string]*context.Node) error {
	for _, e := range a.entries {
		if e.GroupID == groupID {
			return disirerr.Newf(disirerr.Exists, "group %q already present in archive", groupID)
		}
	}
	if len(configs) == 0 {
		return disirerr.Newf(disirerr.NotExist, "no config entries exist for group %q", groupID)
	}
	for entryID, cfg := range configs {
		if err := a.AppendEntry(groupID, entryID, cfg); err != nil {
			return err
		}
	}
	return nil
}

// Finalize writes the archive to destPath (spec §4.15 finalize):
// destPath == "" discards the archive; otherwise it is written to a
// temp file named with a uuid and atomically renamed into place.
func Finalize(a *Archive, destPath string) error {
	if destPath == "" {
		return nil
	}
	data, err := json.Marshal(manifest{Entries: a.entries})
	if err != nil {
		return disirerr.Wrap(disirerr.InternalError, err)
	}
	dir := filepath.Dir(destPath)
	tmpPath := filepath.Join(dir, ".disir-archive-"+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return disirerr.Wrap(disirerr.FSError, err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return disirerr.Wrap(disirerr.FSError, err)
	}
	disirlog.Info(stdctx.Background(), "archive finalized",
		slog.String("path", destPath), slog.Int("entries", len(a.entries)))
	return nil
}

func loadManifest(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return manifest{}, nil
		}
		return manifest{}, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return manifest{}, err
	}
	return m, nil
}

// bufferWriter is a minimal growable byte buffer implementing io.Writer
// without reaching for bytes.Buffer, so the archive's serialised blobs
// stay plain []byte end to end.
type bufferWriter struct {
	buf []byte
}

func (b *bufferWriter) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *bufferWriter) Bytes() []byte { return b.buf }
