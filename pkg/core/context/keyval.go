// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package context

import (
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/value"
)

// GetValue returns a Config Keyval's current value.
func (n *Node) GetValue() (value.Value, error) {
	if err := n.guardKind("get_value", KindKeyval); err != nil {
		return value.Value{}, err
	}
	if n.root == nil || n.root.kind != KindConfig {
		return value.Value{}, disirerr.New(disirerr.WrongContext, "get_value: keyval is not rooted in a config")
	}
	return n.val, nil
}

// SetValue sets a Config Keyval's value, type-checking it against the
// declared type and, if the keyval has a resolved mold-equivalent,
// checking it against that keyval's active exclusive-value
// restrictions (spec §4.8). A constructing node that fails the
// restriction check still stores the draft value but is marked
// invalid and rejected with invalid_context (spec invariant: editors
// may stage an out-of-range draft, but the failed set itself is not
// reported as a clean restriction_violated since the node has not been
// finalized yet); a finalized node instead rejects the set outright,
// leaving the stored value untouched, with restriction_violated.
func (n *Node) SetValue(v value.Value) error {
	if err := n.guardKind("set_value", KindKeyval); err != nil {
		return err
	}
	if n.root == nil || n.root.kind != KindConfig {
		return disirerr.New(disirerr.WrongContext, "set_value: keyval is not rooted in a config")
	}
	if n.declaredType != value.TypeUnknown && v.Type() != n.declaredType {
		return disirerr.Newf(disirerr.WrongValueType,
			"value type %s does not match declared type %s", v.Type(), n.declaredType)
	}

	var restrErr error
	if n.moldEquiv != nil {
		restrErr = n.moldEquiv.CheckExclusiveValue(v, n.root.cfgVersion)
	}
	if restrErr != nil {
		if n.IsFinalized() {
			return restrErr
		}
		n.markInvalid(restrErr.Error())
		n.val = v
		return disirerr.Wrap(disirerr.InvalidContext, restrErr)
	}
	n.val = v
	return nil
}
