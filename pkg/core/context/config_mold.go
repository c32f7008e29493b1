// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package context

import (
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/version"
)

// BindMold associates a Config root with its mold (spec §4.10 begin):
// the config acquires an owning hold on the mold, released at Destroy,
// and starts at version (1,0).
func (n *Node) BindMold(mold *Node) error {
	if err := n.guardKind("bind_mold", KindConfig); err != nil {
		return err
	}
	if err := mold.guardKind("bind_mold", KindMold); err != nil {
		return err
	}
	mold.IncRef()
	n.mold = mold
	n.cfgVersion = version.Default()
	return nil
}

// Mold returns the Mold root bound to this Config.
func (n *Node) Mold() (*Node, error) {
	if err := n.guardKind("mold", KindConfig); err != nil {
		return nil, err
	}
	return n.mold, nil
}

// Version returns the node's Version: a Config's bound version, or a
// Mold's derived version (spec §4.9/§4.10).
func (n *Node) Version() (version.Version, error) {
	switch n.kind {
	case KindConfig:
		return n.cfgVersion, nil
	case KindMold:
		return n.moldVersion, nil
	default:
		return version.Version{}, n.guardKind("version", KindConfig, KindMold)
	}
}

// SetVersion sets a Config's version, refusing any v greater than the
// bound mold's version (spec §4.10, invariant 3: conflicting_semver).
func (n *Node) SetVersion(v version.Version) error {
	if err := n.guardKind("set_version", KindConfig); err != nil {
		return err
	}
	if n.mold == nil {
		return disirerr.New(disirerr.MoldMissing, "config has no bound mold")
	}
	if version.Less(n.mold.moldVersion, v) {
		return disirerr.Newf(disirerr.ConflictingSemver,
			"version %s exceeds mold version %s", v, n.mold.moldVersion)
	}
	n.cfgVersion = v
	return nil
}

// UpdateMoldVersion bumps a Mold's derived version if v exceeds it
// (spec §4.9, invariant 7). Disir maintains this monotonically on
// every add rather than recomputing lazily (see DESIGN.md Open
// Question resolution); RecomputeMoldVersion recomputes it from scratch.
func (n *Node) UpdateMoldVersion(v version.Version) error {
	if err := n.guardKind("update_version", KindMold); err != nil {
		return err
	}
	n.moldVersion = version.Max(n.moldVersion, v)
	return nil
}

// RecomputeMoldVersion walks every descendant Documentation, Default,
// Restriction, Section and Keyval and recomputes the Mold's derived
// version as their maximum introduced version (defaulting to (1,0) if
// none exist). Validate does not call it; callers may compare its
// result against the eagerly maintained version.
func (n *Node) RecomputeMoldVersion() (version.Version, error) {
	if err := n.guardKind("recompute_mold_version", KindMold); err != nil {
		return version.Version{}, err
	}
	v := version.Default()
	n.walkDescendantVersions(&v)
	return v, nil
}

func (n *Node) walkDescendantVersions(v *version.Version) {
	for _, d := range n.docs {
		*v = version.Max(*v, d.docIntroduced)
	}
	for _, d := range n.defaults {
		*v = version.Max(*v, d.defIntroduced)
	}
	for _, r := range n.restrictions {
		*v = version.Max(*v, r.restrIntroduced)
	}
	if n.elements == nil {
		return
	}
	for _, child := range n.elements.GetAll() {
		child.walkDescendantVersions(v)
	}
}

// Elements returns the live children of a composite node (Config,
// Mold, Section) in insertion order (the get_elements operation).
func (n *Node) Elements() ([]*Node, error) {
	if err := n.guardKind("get_elements", KindConfig, KindMold, KindSection); err != nil {
		return nil, err
	}
	return n.elements.GetAll(), nil
}

// FindElement returns the index-th live child named name (spec §4.11).
func (n *Node) FindElement(name string, index int) (*Node, error) {
	if err := n.guardKind("find_element", KindConfig, KindMold, KindSection); err != nil {
		return nil, err
	}
	c, ok := n.elements.GetIndexed(name, index)
	if !ok {
		return nil, disirerr.Newf(disirerr.NotExist, "no element named %q at index %d", name, index)
	}
	return c, nil
}

// FindElements returns every live child named name, in insertion
// order (spec §4.11).
func (n *Node) FindElements(name string) ([]*Node, error) {
	if err := n.guardKind("find_elements", KindConfig, KindMold, KindSection); err != nil {
		return nil, err
	}
	return n.elements.Get(name), nil
}

// ElementCount returns the number of live children named name, used
// by restriction cardinality checks (spec §4.8).
func (n *Node) ElementCount(name string) int {
	if n.elements == nil {
		return 0
	}
	return n.elements.Count(name)
}

// Documentations returns the node's attached Documentation children.
func (n *Node) Documentations() []*Node {
	return n.docs
}

// Defaults returns a Mold Keyval's attached Default children.
func (n *Node) Defaults() []*Node {
	return n.defaults
}

// Restrictions returns the node's attached Restriction children.
func (n *Node) Restrictions() []*Node {
	return n.restrictions
}
