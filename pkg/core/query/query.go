// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package query implements the dotted-path resolver of spec §4.11:
// "section.nested[2].keyval" style addressing over a Config or Mold
// tree, plus plain list/find-by-name helpers.
//
// Grounded on the element-storage query methods the component reuses
// (`context.Node.FindElement`/`FindElements`); the path grammar itself
// follows joshuapare-hivekit's offset/path navigation style for
// walking a tree one segment at a time, adapted from byte offsets to
// named context children.
package query

import (
	"strconv"
	"strings"

	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
)

// segment is one dotted-path component: a name plus an optional
// explicit index (defaulting to 0, the first match).
type segment struct {
	name  string
	index int
}

// parse splits a path like "network.interface[1].address" into
// segments.
func parse(path string) ([]segment, error) {
	if path == "" {
		return nil, disirerr.New(disirerr.InvalidArgument, "empty query path")
	}
	parts := strings.Split(path, ".")
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			return nil, disirerr.Newf(disirerr.InvalidArgument, "empty path segment in %q", path)
		}
		name := p
		index := 0
		if open := strings.IndexByte(p, '['); open >= 0 {
			if !strings.HasSuffix(p, "]") {
				return nil, disirerr.Newf(disirerr.InvalidArgument, "malformed index in segment %q", p)
			}
			name = p[:open]
			idxStr := p[open+1 : len(p)-1]
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 {
				return nil, disirerr.Newf(disirerr.InvalidArgument, "invalid index %q in segment %q", idxStr, p)
			}
			index = idx
		}
		if name == "" {
			return nil, disirerr.Newf(disirerr.InvalidArgument, "missing name in segment %q", p)
		}
		segs = append(segs, segment{name: name, index: index})
	}
	return segs, nil
}

// Resolve walks path from root (a Config, Mold or Section node),
// descending through Sections by name[index] and returning the final
// Section or Keyval node. not_exist is returned if any segment has no
// match.
func Resolve(root *context.Node, path string) (*context.Node, error) {
	segs, err := parse(path)
	if err != nil {
		return nil, err
	}
	cur := root
	for i, seg := range segs {
		child, err := cur.FindElement(seg.name, seg.index)
		if err != nil {
			return nil, disirerr.Newf(disirerr.NotExist,
				"query %q: no element %q[%d] under %s", path, seg.name, seg.index, cur.Kind())
		}
		if i < len(segs)-1 && child.Kind() != context.KindSection {
			return nil, disirerr.Newf(disirerr.WrongContext,
				"query %q: %q is not a section, cannot descend further", path, seg.name)
		}
		cur = child
	}
	return cur, nil
}

// FindElement is a single-segment convenience wrapper over
// context.Node.FindElement.
func FindElement(root *context.Node, name string, index int) (*context.Node, error) {
	return root.FindElement(name, index)
}

// FindElements is a single-segment convenience wrapper over
// context.Node.FindElements.
func FindElements(root *context.Node, name string) ([]*context.Node, error) {
	return root.FindElements(name)
}

// Elements returns every direct child of root in insertion order.
func Elements(root *context.Node) ([]*context.Node, error) {
	return root.Elements()
}
