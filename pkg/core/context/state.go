// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package context

// State is the independent boolean flag set from spec §3/§4.12.
// Constructing and Finalized are mutually exclusive; Destroyed is
// terminal. Invalid and Fatal may be set alongside either of the
// first two.
type State uint8

const (
	StateConstructing State = 1 << iota
	StateFinalized
	StateInvalid
	StateFatal
	StateDestroyed
	StateAttachedToParent
)

func (s State) Has(flag State) bool { return s&flag != 0 }
func (s *State) set(flag State)     { *s |= flag }
func (s *State) clear(flag State)   { *s &^= flag }
