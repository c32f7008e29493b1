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

// RestrictionKind distinguishes inclusive (cardinality) restrictions
// from exclusive (value) restrictions (spec §4.8).
type RestrictionKind int

const (
	RestrictionUnknown RestrictionKind = iota
	RestrictionEntryMin
	RestrictionEntryMax
	RestrictionValueNumeric
	RestrictionValueRange
	RestrictionValueEnum
)

func (k RestrictionKind) String() string {
	switch k {
	case RestrictionEntryMin:
		return "entry_min"
	case RestrictionEntryMax:
		return "entry_max"
	case RestrictionValueNumeric:
		return "value_numeric"
	case RestrictionValueRange:
		return "value_range"
	case RestrictionValueEnum:
		return "value_enum"
	default:
		return "unknown"
	}
}

// IsInclusive reports whether k governs cardinality (entry_min/max)
// rather than a value's acceptable contents.
func (k RestrictionKind) IsInclusive() bool {
	return k == RestrictionEntryMin || k == RestrictionEntryMax
}

// permissibleParents restricts which node kinds a restriction kind may
// attach to (spec §4.8): inclusive restrictions govern how many of a
// named Section/Keyval may appear under a composite, so they attach to
// the composite parent (Mold Section or Mold root); exclusive
// restrictions constrain a Keyval's own value, so they attach to the
// Keyval.
func permissibleParent(rk RestrictionKind, parent *Node) bool {
	if rk.IsInclusive() {
		return parent.kind == KindSection || parent.kind == KindMold
	}
	return parent.kind == KindKeyval
}

// BeginRestriction starts a Restriction node under parent (spec §4.8).
// Restrictions are only meaningful under a Mold.
func BeginRestriction(parent *Node, rk RestrictionKind) (*Node, error) {
	if parent.root == nil || parent.root.kind != KindMold {
		return nil, disirerr.New(disirerr.WrongContext,
			"add_restriction: restrictions may only be added under a mold")
	}
	if !permissibleParent(rk, parent) {
		return nil, disirerr.Newf(disirerr.WrongContext,
			"restriction kind %s is not permitted on a %s", rk, parent.kind)
	}
	n, err := Begin(parent, KindRestriction)
	if err != nil {
		return nil, err
	}
	n.restrKind = rk
	n.restrIntroduced = version.Default()
	if rk == RestrictionEntryMin {
		n.restrMin = 0
	}
	if rk == RestrictionEntryMax {
		n.restrMax = 1
	}
	return n, nil
}

// RestrictionType returns the restriction's kind.
func (n *Node) RestrictionType() (RestrictionKind, error) {
	if err := n.guardKind("restriction_type", KindRestriction); err != nil {
		return RestrictionUnknown, err
	}
	return n.restrKind, nil
}

// SetRestrictionEntryMin sets the minimum cardinality; if the existing
// entry_max is now smaller, it is raised to match (spec §4.8 invariant:
// entry_min <= entry_max always holds).
func (n *Node) SetRestrictionEntryMin(min int) error {
	if err := n.guardKind("set_restriction_entry_min", KindRestriction); err != nil {
		return err
	}
	if n.restrKind != RestrictionEntryMin {
		return disirerr.New(disirerr.WrongContext, "restriction is not entry_min")
	}
	if min < 0 {
		return disirerr.New(disirerr.InvalidArgument, "entry_min must be >= 0")
	}
	n.restrMin = min
	for _, sibling := range n.parent.restrictions {
		if sibling.restrKind == RestrictionEntryMax && sibling.restrMax < min {
			sibling.restrMax = min
		}
	}
	return nil
}

// SetRestrictionEntryMax sets the maximum cardinality.
func (n *Node) SetRestrictionEntryMax(max int) error {
	if err := n.guardKind("set_restriction_entry_max", KindRestriction); err != nil {
		return err
	}
	if n.restrKind != RestrictionEntryMax {
		return disirerr.New(disirerr.WrongContext, "restriction is not entry_max")
	}
	n.restrMax = max
	return nil
}

// SetRestrictionNumeric sets the exact-value restriction's operand.
func (n *Node) SetRestrictionNumeric(v value.Value) error {
	if err := n.guardKind("set_restriction_numeric", KindRestriction); err != nil {
		return err
	}
	if n.restrKind != RestrictionValueNumeric {
		return disirerr.New(disirerr.WrongContext, "restriction is not value_numeric")
	}
	n.restrNumeric = v
	return nil
}

// SetRestrictionRange sets the range restriction's [min, max] operands.
func (n *Node) SetRestrictionRange(min, max value.Value) error {
	if err := n.guardKind("set_restriction_range", KindRestriction); err != nil {
		return err
	}
	if n.restrKind != RestrictionValueRange {
		return disirerr.New(disirerr.WrongContext, "restriction is not value_range")
	}
	if cmp, err := value.Compare(min, max); err != nil || cmp > 0 {
		return disirerr.New(disirerr.InvalidArgument, "range min must be <= max")
	}
	n.restrRangeMin = min
	n.restrRangeMax = max
	return nil
}

// SetRestrictionEnum sets the enum restriction's permitted string.
// Multiple enum restrictions on the same Keyval, each naming one
// permitted string, together form the acceptable set (spec §4.8).
func (n *Node) SetRestrictionEnum(s string) error {
	if err := n.guardKind("set_restriction_enum", KindRestriction); err != nil {
		return err
	}
	if n.restrKind != RestrictionValueEnum {
		return disirerr.New(disirerr.WrongContext, "restriction is not value_enum")
	}
	n.restrEnum = s
	return nil
}

// SetRestrictionIntroduced sets the version at which this restriction
// becomes active.
func (n *Node) SetRestrictionIntroduced(v version.Version) error {
	if err := n.guardKind("set_restriction_introduced", KindRestriction); err != nil {
		return err
	}
	n.restrIntroduced = v
	return nil
}

// SetRestrictionDeprecated marks the version at which this restriction
// stops applying.
func (n *Node) SetRestrictionDeprecated(v version.Version) error {
	if err := n.guardKind("set_restriction_deprecated", KindRestriction); err != nil {
		return err
	}
	n.restrDeprecated = v
	n.restrHasDeprecated = true
	return nil
}

// FinalizeRestriction attaches n to its parent's restriction list and
// finalizes it, bumping the owning Mold's derived version.
func (n *Node) FinalizeRestriction() error {
	if err := n.guardKind("finalize_restriction", KindRestriction); err != nil {
		return err
	}
	n.attachUnnamedToParent(&n.parent.restrictions)
	if err := n.Finalize(); err != nil {
		return err
	}
	if n.root != nil && n.root.kind == KindMold {
		return n.root.UpdateMoldVersion(n.restrIntroduced)
	}
	return nil
}

// activeRestrictions returns the restrictions of kind rk on n that are
// active at version v (introduced <= v < deprecated, if any).
func (n *Node) activeRestrictions(rk RestrictionKind, v version.Version) []*Node {
	var out []*Node
	for _, r := range n.restrictions {
		if r.IsDestroyed() || r.restrKind != rk {
			continue
		}
		if version.Less(v, r.restrIntroduced) {
			continue
		}
		if r.restrHasDeprecated && version.LessEq(r.restrDeprecated, v) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CheckExclusiveValue validates val against the active exclusive
// (value_numeric/value_range/value_enum) restrictions on a Mold Keyval
// at version v. Per spec §4.8/P6, val is accepted iff at least one
// active exclusive restriction admits it, across all three kinds
// combined; restriction_violated is returned only when every active
// restriction rejects val. A Keyval with no active exclusive
// restriction admits any value.
func (n *Node) CheckExclusiveValue(val value.Value, v version.Version) error {
	if err := n.guardKind("check_exclusive_value", KindKeyval); err != nil {
		return err
	}
	numerics := n.activeRestrictions(RestrictionValueNumeric, v)
	ranges := n.activeRestrictions(RestrictionValueRange, v)
	enums := n.activeRestrictions(RestrictionValueEnum, v)
	if len(numerics) == 0 && len(ranges) == 0 && len(enums) == 0 {
		return nil
	}
	for _, r := range numerics {
		if value.Equal(val, r.restrNumeric) {
			return nil
		}
	}
	for _, r := range ranges {
		cmpMin, err := value.Compare(val, r.restrRangeMin)
		if err != nil {
			continue
		}
		cmpMax, err := value.Compare(val, r.restrRangeMax)
		if err != nil {
			continue
		}
		if cmpMin >= 0 && cmpMax <= 0 {
			return nil
		}
	}
	s := val.String()
	for _, r := range enums {
		if r.restrEnum == s {
			return nil
		}
	}
	return disirerr.Newf(disirerr.RestrictionViolated,
		"value %s is not admitted by any active exclusive restriction", val)
}

// CheckCardinality validates the live count of a named element against
// the active entry_min/entry_max restrictions on a composite parent at
// version v (spec §4.8, §4.13).
func (n *Node) CheckCardinality(name string, v version.Version) error {
	if err := n.guardKind("check_cardinality", KindSection, KindMold); err != nil {
		return err
	}
	count := n.ElementCount(name)
	mins := n.activeRestrictions(RestrictionEntryMin, v)
	maxs := n.activeRestrictions(RestrictionEntryMax, v)
	for _, r := range mins {
		if count < r.restrMin {
			return disirerr.Newf(disirerr.RestrictionViolated,
				"%q has %d entries, fewer than minimum %d", name, count, r.restrMin)
		}
	}
	for _, r := range maxs {
		if count > r.restrMax {
			return disirerr.Newf(disirerr.RestrictionViolated,
				"%q has %d entries, more than maximum %d", name, count, r.restrMax)
		}
	}
	return nil
}
