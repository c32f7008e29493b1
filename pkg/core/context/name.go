// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package context

import (
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/value"
)

// Name returns the node's name (Section/Keyval only).
func (n *Node) Name() (string, error) {
	if err := n.guardKind("name", KindSection, KindKeyval); err != nil {
		return "", err
	}
	s, _ := n.name.GetString()
	return s, nil
}

// SetName sets the node's name (Section/Keyval only) and, for nodes
// rooted in a Config, attempts to resolve the mold-equivalent node
// under the parent's mold-equivalent (spec §4.5).
//
// On set_name failure to resolve a mold-equivalent the node is marked
// invalid and not_exist is returned, but the provided name is retained
// so later introspection (GetName) still reports it, and the node is
// still attached to its parent's element storage (spec invariant 4:
// "still stored").
func (n *Node) SetName(name string) error {
	if err := n.guardKind("set_name", KindSection, KindKeyval); err != nil {
		return err
	}
	if n.IsFinalized() {
		return disirerr.New(disirerr.ContextInWrongState, "cannot rename a finalized context")
	}
	n.name = value.NewString(name)

	var resolveErr error
	if n.root != nil && n.root.kind == KindConfig && n.parent != nil {
		var moldParent *Node
		if n.parent.kind == KindConfig {
			moldParent = n.parent.mold
		} else {
			moldParent = n.parent.moldEquiv
		}
		if moldParent == nil {
			resolveErr = disirerr.Newf(disirerr.MoldMissing,
				"parent context has no mold equivalent to resolve %q against", name)
		} else {
			eq, ok := moldParent.elements.GetFirst(name)
			if !ok {
				resolveErr = disirerr.Newf(disirerr.NotExist,
					"name %q does not exist in mold", name)
			} else {
				n.moldEquiv = eq
				if n.kind == KindKeyval {
					n.declaredType = eq.declaredType
					if n.val.Type() == value.TypeUnknown {
						n.val = value.Zero(eq.declaredType)
					}
				}
			}
		}
	}

	if err := n.attachNamedToParent(); err != nil {
		return err
	}

	if resolveErr != nil {
		n.markInvalid(resolveErr.Error())
		return resolveErr
	}
	return nil
}

// MoldEquivalent returns the corresponding node in the bound mold for
// a Section/Keyval rooted in a Config, or nil if unresolved.
func (n *Node) MoldEquivalent() *Node {
	return n.moldEquiv
}

// DeclaredType returns the Keyval's declared value type.
func (n *Node) DeclaredType() (value.Type, error) {
	if err := n.guardKind("declared_type", KindKeyval); err != nil {
		return value.TypeUnknown, err
	}
	return n.declaredType, nil
}

// SetDeclaredType sets a Mold Keyval's declared value type. It is only
// meaningful while constructing a Mold Keyval, before any default is
// added.
func (n *Node) SetDeclaredType(t value.Type) error {
	if err := n.guardKind("set_declared_type", KindKeyval); err != nil {
		return err
	}
	n.declaredType = t
	if n.root != nil && n.root.kind == KindMold {
		n.val = value.Zero(t)
	}
	return nil
}
