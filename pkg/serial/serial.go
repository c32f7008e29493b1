// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serial defines the abstract serialiser/unserialiser contract
// of spec §6: the core exposes context-walk primitives; any concrete
// wire format lives behind this interface, external to pkg/core.
package serial

import (
	"io"

	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/mold"
)

// Serialiser reads a Config or Mold node (walking via get_elements in
// insertion order, reading name/value/version/documentation/
// restrictions) and produces bytes in some external format.
type Serialiser interface {
	Serialise(w io.Writer, root *context.Node) error
}

// Unserialiser reconstructs a Config by beginning against a supplied
// Mold and issuing context operations, preserving the external element
// order to allow round-tripping (spec §6 invariant).
type Unserialiser interface {
	Unserialise(r io.Reader, m *mold.Mold) (*context.Node, error)
}

// Codec bundles both directions, matching how concrete implementations
// (e.g. pkg/serial/yamlcodec) are typically constructed and passed
// around as one value.
type Codec interface {
	Serialiser
	Unserialiser
}
