// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package plugin defines the Disir plugin contract (spec §6): a
// registry of callbacks keyed by group id that read, write, remove and
// enumerate Config and Mold entries on behalf of some backing store.
//
// Grounded on the teacher's pkg/core/repo interface-package idiom:
// narrow interfaces owned by the core/domain layer, implemented by
// outer adapters (there, carsrp/queryer/role against Postgres; here,
// memplugin or a future filesystem/network-backed plugin).
package plugin

import (
	"context"

	disctx "github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
)

// Entry describes one config or mold entry a plugin can serve (spec
// §6 config_entries). Namespace entries have an id ending in "/" and
// represent a prefix whose children all share one mold.
type Entry struct {
	EntryID   string
	Readable  bool
	Writable  bool
	Namespace bool
}

// IsNamespace reports whether id denotes a namespace entry (spec
// "Namespace entry": entries whose id ends with '/').
func IsNamespace(id string) bool {
	return len(id) > 0 && id[len(id)-1] == '/'
}

// Plugin is the contract a backing store implements, keyed by a group
// id at registration time (spec §6 "A plugin registers callbacks keyed
// by a group id").
type Plugin interface {
	// GroupID returns the group id this plugin serves.
	GroupID() string

	// ConfigRead loads the Config for entryID, optionally validating it
	// against mold if non-nil.
	ConfigRead(ctx context.Context, entryID string, mold *disctx.Node) (*disctx.Node, error)
	// ConfigWrite persists cfg under entryID.
	ConfigWrite(ctx context.Context, entryID string, cfg *disctx.Node) error
	// ConfigRemove deletes the config entry named entryID.
	ConfigRemove(ctx context.Context, entryID string) error
	// ConfigEntries enumerates every config entry this plugin knows.
	ConfigEntries(ctx context.Context) ([]Entry, error)
	// ConfigQuery reports whether entryID exists, as exists/not_exist.
	ConfigQuery(ctx context.Context, entryID string) error

	// MoldRead loads the Mold for entryID.
	MoldRead(ctx context.Context, entryID string) (*disctx.Node, error)
	// MoldWrite persists m under entryID.
	MoldWrite(ctx context.Context, entryID string, m *disctx.Node) error
	// MoldRemove deletes the mold entry named entryID.
	MoldRemove(ctx context.Context, entryID string) error
	// MoldEntries enumerates every mold entry this plugin knows.
	MoldEntries(ctx context.Context) ([]Entry, error)
	// MoldQuery reports whether entryID exists, as exists/not_exist.
	MoldQuery(ctx context.Context, entryID string) error
}

// Registry holds every plugin registered with a host instance, indexed
// by group id (spec §6).
type Registry struct {
	plugins map[string]Plugin
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds p under its own GroupID, rejecting a duplicate group.
func (r *Registry) Register(p Plugin) error {
	if _, exists := r.plugins[p.GroupID()]; exists {
		return disirerr.Newf(disirerr.Exists, "plugin already registered for group %q", p.GroupID())
	}
	r.plugins[p.GroupID()] = p
	return nil
}

// Get returns the plugin registered for groupID.
func (r *Registry) Get(groupID string) (Plugin, error) {
	p, ok := r.plugins[groupID]
	if !ok {
		return nil, disirerr.Newf(disirerr.GroupMissing, "no plugin registered for group %q", groupID)
	}
	return p, nil
}

// Groups returns every registered group id.
func (r *Registry) Groups() []string {
	out := make([]string, 0, len(r.plugins))
	for g := range r.plugins {
		out = append(out, g)
	}
	return out
}

// WritableEntries enumerates every writable, non-namespace config
// entry across every registered plugin's group (namespace entries are
// skipped since they represent a prefix, not a concrete config).
func (r *Registry) WritableEntries(ctx context.Context) (map[string][]Entry, error) {
	out := make(map[string][]Entry)
	for group, p := range r.plugins {
		entries, err := p.ConfigEntries(ctx)
		if err != nil {
			return nil, err
		}
		var writable []Entry
		for _, e := range entries {
			if e.Writable && !e.Namespace {
				writable = append(writable, e)
			}
		}
		if len(writable) > 0 {
			out[group] = writable
		}
	}
	return out, nil
}
