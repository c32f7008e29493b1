// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package version implements the Disir semantic Version type: a
// (major, minor) pair used to evolve molds and configs (spec §4.2).
//
// Grounded on pkg/core/model/semver.go of the teacher (a SemVer[3]uint
// with UnmarshalText/MarshalText/String), trimmed to the two components
// that the mold/config versioning subsystem actually needs.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/disir-project/disir/pkg/core/disirerr"
)

// Version is a (major, minor) pair compared lexicographically.
// The zero value is invalid; use Default for the spec's default (1,0).
type Version struct {
	Major uint
	Minor uint
}

// Default returns the version used when no explicit version has been
// set on a node: (1, 0).
func Default() Version {
	return Version{Major: 1, Minor: 0}
}

// Parse accepts "M.m", tolerating trailing garbage after the minor
// component only when the minor component itself parsed successfully
// (spec §4.2).
func Parse(s string) (Version, error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) == 0 || parts[0] == "" {
		return Version{}, disirerr.Newf(disirerr.InvalidArgument,
			"version %q has no major component", s)
	}
	major, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Version{}, disirerr.Newf(disirerr.InvalidArgument,
			"version %q major component is not numeric", s)
	}
	if len(parts) == 1 {
		return Version{}, disirerr.Newf(disirerr.InvalidArgument,
			"version %q has no minor component", s)
	}
	minorPart := parts[1]
	// Tolerate trailing garbage after the minor, e.g. "1.2-rc1", by
	// consuming only the leading digit run; the minor must still parse.
	end := 0
	for end < len(minorPart) && minorPart[end] >= '0' && minorPart[end] <= '9' {
		end++
	}
	if end == 0 {
		return Version{}, disirerr.Newf(disirerr.InvalidArgument,
			"version %q minor component is not numeric", s)
	}
	minor, err := strconv.ParseUint(minorPart[:end], 10, 64)
	if err != nil {
		return Version{}, disirerr.Newf(disirerr.InvalidArgument,
			"version %q minor component is not numeric", s)
	}
	return Version{Major: uint(major), Minor: uint(minor)}, nil
}

// Format writes v's string representation ("major.minor") into buf,
// mirroring the C API's buffer-based Format operation. It truncates
// and reports the required size when buf is too small.
func Format(buf []byte, v Version) (written int, required int) {
	s := v.String()
	required = len(s)
	n := copy(buf, s)
	return n, required
}

// String returns v as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Cmp compares a and b lexicographically: -1, 0 or 1 for a<b, a==b, a>b.
func Cmp(a, b Version) int {
	switch {
	case a.Major != b.Major:
		if a.Major < b.Major {
			return -1
		}
		return 1
	case a.Minor != b.Minor:
		if a.Minor < b.Minor {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// LessEq reports whether a <= b.
func LessEq(a, b Version) bool { return Cmp(a, b) <= 0 }

// Less reports whether a < b.
func Less(a, b Version) bool { return Cmp(a, b) < 0 }

// Equal reports whether a == b.
func Equal(a, b Version) bool { return Cmp(a, b) == 0 }

// Set copies src into *dst.
func Set(dst *Version, src Version) {
	*dst = src
}

// Max returns the greater of a and b.
func Max(a, b Version) Version {
	if Less(a, b) {
		return b
	}
	return a
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the
// reference YAML/JSON codecs (pkg/serial/yamlcodec, pkg/archive).
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
