// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package validator is the thin public entry point to spec §4.13's
// validation algorithm, which is implemented on context.Node itself
// (pkg/core/context/validate.go) since it needs access to every
// unexported per-kind field. This package exposes that algorithm under
// a stable, documented name for callers that do not want to import
// pkg/core/context just to call Validate.
package validator

import (
	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
)

// Result is the outcome of validating a tree: the worst status
// encountered plus every node that ended up marked invalid.
type Result struct {
	Status  disirerr.Kind
	Invalid []*context.Node
}

// Validate runs spec §4.13's validation algorithm over root (a Config
// or Mold), returning the worst-wins status and the set of nodes left
// marked invalid afterward.
func Validate(root *context.Node) Result {
	status := root.Validate()
	return Result{Status: status, Invalid: collectInvalid(root)}
}

func collectInvalid(n *context.Node) []*context.Node {
	var out []*context.Node
	if n.IsInvalid() {
		out = append(out, n)
	}
	children, err := n.Elements()
	if err == nil {
		for _, c := range children {
			out = append(out, collectInvalid(c)...)
		}
	}
	for _, d := range n.Documentations() {
		if d.IsInvalid() {
			out = append(out, d)
		}
	}
	for _, d := range n.Defaults() {
		if d.IsInvalid() {
			out = append(out, d)
		}
	}
	for _, r := range n.Restrictions() {
		if r.IsInvalid() {
			out = append(out, r)
		}
	}
	return out
}

// IsValid reports whether root and every descendant passed validation.
func IsValid(root *context.Node) bool {
	return Validate(root).Status == disirerr.OK
}
