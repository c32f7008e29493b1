// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package context

import (
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/version"
)

// Validate runs spec §4.13's validation algorithm on n: clear any
// stale invalid flag, run kind-specific checks, recurse into composite
// children collecting the worst child status, and for a Config Keyval
// additionally check its current value against its mold-equivalent's
// active exclusive-value restrictions. The node's own Invalid flag is
// left set to reflect the returned status; Fatal, once set, always
// wins.
func (n *Node) Validate() disirerr.Kind {
	if n.IsFatal() {
		n.state.set(StateInvalid)
		return disirerr.InvalidContext
	}
	n.clearInvalid()

	status := disirerr.OK
	status = disirerr.Worse(status, n.validateSelf())

	if n.elements != nil {
		for _, child := range n.elements.GetAll() {
			status = disirerr.Worse(status, child.Validate())
		}
	}
	for _, d := range n.docs {
		status = disirerr.Worse(status, d.Validate())
	}
	for _, d := range n.defaults {
		status = disirerr.Worse(status, d.Validate())
	}
	for _, r := range n.restrictions {
		status = disirerr.Worse(status, r.Validate())
	}

	if status != disirerr.OK {
		n.state.set(StateInvalid)
		if n.errMsg == "" {
			n.errMsg = status.String()
		}
	}
	return status
}

// validateSelf runs the kind-specific checks that do not require
// recursing into children.
func (n *Node) validateSelf() disirerr.Kind {
	switch n.kind {
	case KindSection, KindKeyval:
		if !n.state.Has(StateAttachedToParent) {
			return disirerr.WrongContext
		}
		if n.root != nil && n.root.kind == KindConfig && n.moldEquiv == nil {
			return disirerr.MoldMissing
		}
		if n.kind == KindKeyval && n.declaredType == 0 { // value.TypeUnknown
			return disirerr.NotSupported
		}
		if n.kind == KindKeyval && n.root != nil && n.root.kind == KindConfig {
			if err := n.moldEquiv.CheckExclusiveValue(n.val, n.root.cfgVersion); err != nil {
				return disirerr.KindOf(err)
			}
		}
		if n.kind == KindSection {
			return n.checkChildCardinality()
		}
	case KindMold:
		return n.checkChildCardinality()
	case KindConfig:
		if n.mold == nil {
			return disirerr.MoldMissing
		}
		status := n.checkChildCardinality()
		return disirerr.Worse(status, n.validateConfigKeyvalValues())
	case KindRestriction:
		if n.restrKind == RestrictionUnknown {
			return disirerr.InvalidContext
		}
	}
	return disirerr.OK
}

// checkChildCardinality validates each distinct live child name under a
// composite node against the active entry_min/entry_max restrictions
// governing it: its own restrictions for a Mold root or Mold Section,
// or its mold-equivalent's restrictions (at the bound config version)
// for a Config root or Config Section. Any unmet minimum or exceeded
// maximum maps to elements_invalid (spec §4.13 step 3), distinct from
// the restriction_violated CheckCardinality itself reports, since this
// is the composite-validation outcome rather than a direct add-time
// check.
func (n *Node) checkChildCardinality() disirerr.Kind {
	if n.elements == nil {
		return disirerr.OK
	}
	var owner *Node
	var v version.Version
	switch {
	case n.kind == KindMold:
		owner, v = n, n.moldVersion
	case n.kind == KindSection && n.root != nil && n.root.kind == KindMold:
		owner, v = n, n.root.moldVersion
	case n.kind == KindSection && n.root != nil && n.root.kind == KindConfig:
		if n.moldEquiv == nil {
			return disirerr.OK
		}
		owner, v = n.moldEquiv, n.root.cfgVersion
	case n.kind == KindConfig:
		if n.mold == nil {
			return disirerr.OK
		}
		owner, v = n.mold, n.cfgVersion
	default:
		return disirerr.OK
	}

	seen := make(map[string]bool)
	for _, child := range n.elements.GetAll() {
		name := child.ElementName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if err := owner.CheckCardinality(name, v); err != nil {
			return disirerr.ElementsInvalid
		}
	}
	return disirerr.OK
}

// validateConfigKeyvalValues walks every descendant Keyval of a Config
// root and checks its current value against the mold-equivalent's
// active exclusive-value restrictions (spec §4.13 step 4).
func (n *Node) validateConfigKeyvalValues() disirerr.Kind {
	status := disirerr.OK
	var walk func(*Node)
	walk = func(c *Node) {
		if c.kind == KindKeyval {
			if c.moldEquiv == nil {
				status = disirerr.Worse(status, disirerr.MoldMissing)
				return
			}
			if err := c.moldEquiv.CheckExclusiveValue(c.val, n.cfgVersion); err != nil {
				status = disirerr.Worse(status, disirerr.KindOf(err))
			}
			return
		}
		if c.elements == nil {
			return
		}
		for _, gc := range c.elements.GetAll() {
			walk(gc)
		}
	}
	if n.elements != nil {
		for _, c := range n.elements.GetAll() {
			walk(c)
		}
	}
	return status
}
