// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mold implements the Mold root operations of spec §4.9: the
// typed schema tree that Config documents are validated and upgraded
// against.
//
// Grounded on the teacher's `pkg/core/repo/migrator.go` generic family
// for the idea of a small typed wrapper over a generically-shaped core
// object; here the wrapper is intentionally thin since `context.Node`
// already carries every Mold-specific field.
package mold

import (
	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/version"
)

// Mold wraps a *context.Node known to be a Mold root.
type Mold struct {
	node *context.Node
}

// Begin starts a new Mold root (spec §4.9 begin).
func Begin() (*Mold, error) {
	n, err := context.Begin(nil, context.KindMold)
	if err != nil {
		return nil, err
	}
	return &Mold{node: n}, nil
}

// FromNode wraps an already-built Mold-kind node, returning
// wrong_context if n is not a Mold root.
func FromNode(n *context.Node) (*Mold, error) {
	if n.Kind() != context.KindMold {
		return nil, disirerr.New(disirerr.WrongContext, "node is not a mold root")
	}
	return &Mold{node: n}, nil
}

// Node returns the underlying context node.
func (m *Mold) Node() *context.Node { return m.node }

// Finalize finalizes the Mold root, running full-tree validation.
func (m *Mold) Finalize() error { return m.node.Finalize() }

// Version returns the Mold's derived version: the maximum introduced
// version across every descendant documentation/default/restriction
// (spec §4.9 invariant 7), maintained eagerly on every add.
func (m *Mold) Version() version.Version {
	v, _ := m.node.Version()
	return v
}

// UpdateVersion bumps the Mold's derived version if v exceeds it; used
// internally by add_default/add_restriction/add_documentation.
func (m *Mold) UpdateVersion(v version.Version) error {
	return m.node.UpdateMoldVersion(v)
}

// RecomputeVersion recomputes the derived version from scratch, as a
// cross-check against Version; the validator does not call it.
func (m *Mold) RecomputeVersion() (version.Version, error) {
	return m.node.RecomputeMoldVersion()
}

// Destroy tears down the Mold and every descendant. Any Config still
// bound to it will observe destroyed_context on its next operation.
func (m *Mold) Destroy() { m.node.Destroy() }

// Put releases one external hold on the Mold root.
func (m *Mold) Put() { m.node.Put() }
