// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package disirerr implements Disir's closed error taxonomy (spec §7).
//
// Grounded on the teacher's pkg/core/cerr package (an Error struct
// pairing a wrapped error with a classification, plus a dedicated
// MismatchingSemVerError for version conflicts in cerr/ver.go), adapted
// from the teacher's small HTTP-status-oriented set of kinds to the
// spec's closed, much larger status enumeration, and grounded on
// original_source/include/disir/disir.h's disir_status enum for the
// exact member set and ordering.
package disirerr

// Kind is one of the closed error kinds from spec.md §7. It is the Go
// rendition of the C library's enum disir_status.
type Kind int

const (
	OK Kind = iota
	NoCanDo
	InvalidArgument
	TooFewArguments
	ContextInWrongState
	WrongContext
	InvalidContext
	DestroyedContext
	NoMemory
	InternalError
	InsufficientResources
	Exists
	ConflictingSemver
	Conflict
	Exhausted
	MoldMissing
	WrongValueType
	NotExist
	RestrictionViolated
	ElementsInvalid
	NotSupported
	PluginError
	LoadError
	ConfigInvalid
	GroupMissing
	PermissionError
	FSError
	DefaultMissing
)

var names = map[Kind]string{
	OK:                     "ok",
	NoCanDo:                "no_can_do",
	InvalidArgument:        "invalid_argument",
	TooFewArguments:        "too_few_arguments",
	ContextInWrongState:    "context_in_wrong_state",
	WrongContext:           "wrong_context",
	InvalidContext:         "invalid_context",
	DestroyedContext:       "destroyed_context",
	NoMemory:               "no_memory",
	InternalError:          "internal_error",
	InsufficientResources:  "insufficient_resources",
	Exists:                 "exists",
	ConflictingSemver:      "conflicting_semver",
	Conflict:               "conflict",
	Exhausted:              "exhausted",
	MoldMissing:            "mold_missing",
	WrongValueType:         "wrong_value_type",
	NotExist:               "not_exist",
	RestrictionViolated:    "restriction_violated",
	ElementsInvalid:        "elements_invalid",
	NotSupported:           "not_supported",
	PluginError:            "plugin_error",
	LoadError:              "load_error",
	ConfigInvalid:          "config_invalid",
	GroupMissing:           "group_missing",
	PermissionError:        "permission_error",
	FSError:                "fs_error",
	DefaultMissing:         "default_missing",
}

// String returns the taxonomy name of k, e.g. "invalid_context".
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// severityRank implements the validator's worst-wins precedence from
// spec §4.13: mold_missing > wrong_value_type > restriction_violated >
// invalid_context > elements_invalid > ok. Kinds outside this list are
// not part of the validator's per-node status; rank gives every such
// non-ok kind 1, worse than ok and tied with elements_invalid.
var severityRank = map[Kind]int{
	MoldMissing:         5,
	WrongValueType:      4,
	RestrictionViolated: 3,
	InvalidContext:      2,
	ElementsInvalid:     1,
	OK:                  0,
}

// rank returns k's severity: its entry in severityRank if present,
// otherwise 1 for any non-OK kind (worse than ok, at or below the
// weakest ranked failure) and 0 for ok itself.
func rank(k Kind) int {
	if r, ok := severityRank[k]; ok {
		return r
	}
	if k == OK {
		return 0
	}
	return 1
}

// Worse returns whichever of a and b ranks worse under the validator's
// precedence order (spec §4.13). On equal rank a is returned, so an
// unranked kind and elements_invalid (both rank 1) keep whichever is a.
func Worse(a, b Kind) Kind {
	if rank(a) >= rank(b) {
		return a
	}
	return b
}
