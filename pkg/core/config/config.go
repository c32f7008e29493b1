// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config implements the Config root operations of spec §4.10:
// a live, user-editable document bound to a Mold and versioned no
// higher than it.
package config

import (
	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/mold"
	"github.com/disir-project/disir/pkg/core/version"
)

// Config wraps a *context.Node known to be a Config root.
type Config struct {
	node *context.Node
}

// Begin starts a new Config bound to m, starting at version (1,0)
// (spec §4.10 begin, invariant 3).
func Begin(m *mold.Mold) (*Config, error) {
	n, err := context.Begin(nil, context.KindConfig)
	if err != nil {
		return nil, err
	}
	if err := n.BindMold(m.Node()); err != nil {
		n.Destroy()
		return nil, err
	}
	return &Config{node: n}, nil
}

// FromNode wraps an already-built Config-kind node.
func FromNode(n *context.Node) (*Config, error) {
	if n.Kind() != context.KindConfig {
		return nil, disirerr.New(disirerr.WrongContext, "node is not a config root")
	}
	return &Config{node: n}, nil
}

// Node returns the underlying context node.
func (c *Config) Node() *context.Node { return c.node }

// Finalize finalizes the Config, running full-tree validation
// (including the per-keyval exclusive-value check against the bound
// mold, spec §4.13 step 4).
func (c *Config) Finalize() error { return c.node.Finalize() }

// Version returns the Config's bound version.
func (c *Config) Version() version.Version {
	v, _ := c.node.Version()
	return v
}

// SetVersion sets the Config's version, rejecting any value above the
// bound mold's version with conflicting_semver (spec §4.10 invariant 3).
func (c *Config) SetVersion(v version.Version) error {
	return c.node.SetVersion(v)
}

// Mold returns the Mold bound to this Config.
func (c *Config) Mold() (*mold.Mold, error) {
	n, err := c.node.Mold()
	if err != nil {
		return nil, err
	}
	return mold.FromNode(n)
}

// Destroy tears down the Config and releases its hold on the bound
// mold.
func (c *Config) Destroy() { c.node.Destroy() }

// Put releases one external hold on the Config root.
func (c *Config) Put() { c.node.Put() }
