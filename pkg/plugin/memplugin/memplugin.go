// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memplugin provides an in-memory reference implementation of
// the plugin.Plugin contract, used by the CLI commands and by
// pkg/plugin's tests, analogous to the teacher's internal/test
// dbcontainer helper standing in for a real Postgres instance.
package memplugin

import (
	"context"
	"sort"
	"sync"

	disctx "github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/plugin"
)

// Plugin is an in-memory, map-backed plugin: configs and molds live
// only in process memory and vanish on process exit.
type Plugin struct {
	groupID string

	mu     sync.Mutex
	configs map[string]*disctx.Node
	molds   map[string]*disctx.Node
	// writable/readable flags per entry id; defaults to true/true if
	// absent once a config/mold is registered.
	readOnly map[string]bool
}

// New creates an empty in-memory plugin serving groupID.
func New(groupID string) *Plugin {
	return &Plugin{
		groupID:  groupID,
		configs:  make(map[string]*disctx.Node),
		molds:    make(map[string]*disctx.Node),
		readOnly: make(map[string]bool),
	}
}

func (p *Plugin) GroupID() string { return p.groupID }

// MarkReadOnly flags entryID as read-only for subsequent ConfigEntries
// listings (used by tests exercising the read-only branch of the
// writable/readable flags).
func (p *Plugin) MarkReadOnly(entryID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readOnly[entryID] = true
}

func (p *Plugin) ConfigRead(_ context.Context, entryID string, mold *disctx.Node) (*disctx.Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cfg, ok := p.configs[entryID]
	if !ok {
		return nil, disirerr.Newf(disirerr.NotExist, "no config entry %q", entryID)
	}
	if mold != nil {
		bound, err := cfg.Mold()
		if err != nil || bound != mold {
			return nil, disirerr.Newf(disirerr.ConfigInvalid,
				"config entry %q is not bound to the requested mold", entryID)
		}
	}
	return cfg, nil
}

func (p *Plugin) ConfigWrite(_ context.Context, entryID string, cfg *disctx.Node) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readOnly[entryID] {
		return disirerr.Newf(disirerr.PermissionError, "config entry %q is read-only", entryID)
	}
	p.configs[entryID] = cfg
	return nil
}

func (p *Plugin) ConfigRemove(_ context.Context, entryID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.configs[entryID]; !ok {
		return disirerr.Newf(disirerr.NotExist, "no config entry %q", entryID)
	}
	delete(p.configs, entryID)
	return nil
}

func (p *Plugin) ConfigEntries(_ context.Context) ([]plugin.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.configs))
	for id := range p.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]plugin.Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, plugin.Entry{
			EntryID:   id,
			Readable:  true,
			Writable:  !p.readOnly[id],
			Namespace: plugin.IsNamespace(id),
		})
	}
	return out, nil
}

func (p *Plugin) ConfigQuery(_ context.Context, entryID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.configs[entryID]; ok {
		return disirerr.New(disirerr.Exists, "config entry exists")
	}
	return disirerr.New(disirerr.NotExist, "config entry does not exist")
}

func (p *Plugin) MoldRead(_ context.Context, entryID string) (*disctx.Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.molds[entryID]
	if !ok {
		return nil, disirerr.Newf(disirerr.NotExist, "no mold entry %q", entryID)
	}
	return m, nil
}

func (p *Plugin) MoldWrite(_ context.Context, entryID string, m *disctx.Node) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.molds[entryID] = m
	return nil
}

func (p *Plugin) MoldRemove(_ context.Context, entryID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.molds[entryID]; !ok {
		return disirerr.Newf(disirerr.NotExist, "no mold entry %q", entryID)
	}
	delete(p.molds, entryID)
	return nil
}

func (p *Plugin) MoldEntries(_ context.Context) ([]plugin.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.molds))
	for id := range p.molds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]plugin.Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, plugin.Entry{EntryID: id, Readable: true, Writable: true})
	}
	return out, nil
}

func (p *Plugin) MoldQuery(_ context.Context, entryID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.molds[entryID]; ok {
		return disirerr.New(disirerr.Exists, "mold entry exists")
	}
	return disirerr.New(disirerr.NotExist, "mold entry does not exist")
}

var _ plugin.Plugin = (*Plugin)(nil)
