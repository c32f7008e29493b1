// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package context

import (
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/value"
	"github.com/disir-project/disir/pkg/core/version"
)

// BeginDefault starts a Default node under a Mold Keyval (spec §4.7).
// Defaults may only be added to a Keyval whose root is a Mold: Config
// Keyvals hold a live value instead.
func BeginDefault(parent *Node) (*Node, error) {
	if err := parent.guardKind("add_default", KindKeyval); err != nil {
		return nil, err
	}
	if parent.root == nil || parent.root.kind != KindMold {
		return nil, disirerr.New(disirerr.WrongContext,
			"add_default: keyval is not rooted in a mold")
	}
	n, err := Begin(parent, KindDefault)
	if err != nil {
		return nil, err
	}
	n.defIntroduced = version.Default()
	n.defValue = value.Zero(parent.declaredType)
	return n, nil
}

// SetDefaultValue sets the default's value, type-checked against the
// owning Keyval's declared type.
func (n *Node) SetDefaultValue(v value.Value) error {
	if err := n.guardKind("set_default_value", KindDefault); err != nil {
		return err
	}
	if n.parent.declaredType != value.TypeUnknown && v.Type() != n.parent.declaredType {
		return disirerr.Newf(disirerr.WrongValueType,
			"default value type %s does not match declared type %s", v.Type(), n.parent.declaredType)
	}
	n.defValue = v
	return nil
}

// DefaultValue returns the default's value.
func (n *Node) DefaultValue() (value.Value, error) {
	if err := n.guardKind("default_value", KindDefault); err != nil {
		return value.Value{}, err
	}
	return n.defValue, nil
}

// SetDefaultIntroduced sets the version at which this default becomes
// active. Two defaults on the same Keyval may not share an introduced
// version (spec §4.7 invariant); this is enforced at finalize time.
func (n *Node) SetDefaultIntroduced(v version.Version) error {
	if err := n.guardKind("set_default_introduced", KindDefault); err != nil {
		return err
	}
	n.defIntroduced = v
	return nil
}

// DefaultIntroduced returns the default's introduced version.
func (n *Node) DefaultIntroduced() (version.Version, error) {
	if err := n.guardKind("default_introduced", KindDefault); err != nil {
		return version.Version{}, err
	}
	return n.defIntroduced, nil
}

// FinalizeDefault attaches n to its owning Keyval's defaults list,
// rejecting a duplicate introduced version, then finalizes it and
// bumps the owning Mold's derived version.
func (n *Node) FinalizeDefault() error {
	if err := n.guardKind("finalize_default", KindDefault); err != nil {
		return err
	}
	for _, existing := range n.parent.defaults {
		if existing.IsDestroyed() {
			continue
		}
		if version.Equal(existing.defIntroduced, n.defIntroduced) {
			n.markInvalid("duplicate default introduced version on this keyval")
			return disirerr.Newf(disirerr.Exists,
				"a default is already introduced at version %s", n.defIntroduced)
		}
	}
	n.attachUnnamedToParent(&n.parent.defaults)
	if err := n.Finalize(); err != nil {
		return err
	}
	if n.root != nil && n.root.kind == KindMold {
		return n.root.UpdateMoldVersion(n.defIntroduced)
	}
	return nil
}

// ActiveDefault returns the Default entry active at version v on a
// Mold Keyval: the entry with the greatest introduced version not
// exceeding v (spec §4.7 active_default, §4.9).
func (n *Node) ActiveDefault(v version.Version) (*Node, error) {
	if err := n.guardKind("active_default", KindKeyval); err != nil {
		return nil, err
	}
	var best *Node
	for _, d := range n.defaults {
		if d.IsDestroyed() || version.Less(v, d.defIntroduced) {
			continue
		}
		if best == nil || version.Less(best.defIntroduced, d.defIntroduced) {
			best = d
		}
	}
	if best == nil {
		return nil, disirerr.Newf(disirerr.DefaultMissing,
			"no default active at version %s", v)
	}
	return best, nil
}
