// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package context implements the Disir context node (spec §3, §4.5):
// a single polymorphic node type carrying a kind tag, a state-flag
// set, refcount, parent/root links and a kind-selected variant
// payload.
//
// Design note (spec §9 "Polymorphism without inheritance"): Go has no
// tagged unions. Rather than model each kind as a distinct struct type
// behind an interface -- which would force every generic tree walk
// (finalize, validate, serialise) to juggle seven concrete types -- a
// single Node struct carries every kind's fields, populated only for
// the relevant kind, exactly as the C source's struct disir_context
// carries a union of per-kind substructures selected by cx_type.
// Kind-specific accessor methods guard on Kind() and return
// wrong_context on mismatch (spec §4.5), so callers never have to
// type-switch by hand.
package context

// Kind is the closed set of node kinds from spec §3.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindMold
	KindSection
	KindKeyval
	KindDocumentation
	KindDefault
	KindRestriction
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "CONFIG"
	case KindMold:
		return "MOLD"
	case KindSection:
		return "SECTION"
	case KindKeyval:
		return "KEYVAL"
	case KindDocumentation:
		return "DOCUMENTATION"
	case KindDefault:
		return "DEFAULT"
	case KindRestriction:
		return "RESTRICTION"
	default:
		return "UNKNOWN"
	}
}

// IsComposite reports whether k has named children via element storage
// (Config, Mold, Section).
func (k Kind) IsComposite() bool {
	return k == KindConfig || k == KindMold || k == KindSection
}

// IsRoot reports whether k may be a tree root (Config or Mold).
func (k Kind) IsRoot() bool {
	return k == KindConfig || k == KindMold
}
