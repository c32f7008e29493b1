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

// BeginDocumentation starts a Documentation node attached to parent
// (Config, Mold, Section, Keyval; spec §4.6). Documentation carries no
// name of its own, so it lives on the parent's unnamed docs list
// rather than element storage.
func BeginDocumentation(parent *Node) (*Node, error) {
	if err := parent.guardKind("add_documentation", KindConfig, KindMold, KindSection, KindKeyval); err != nil {
		return nil, err
	}
	n, err := Begin(parent, KindDocumentation)
	if err != nil {
		return nil, err
	}
	n.docIntroduced = version.Default()
	return n, nil
}

// SetDocText sets the documentation string.
func (n *Node) SetDocText(text string) error {
	if err := n.guardKind("set_doc_text", KindDocumentation); err != nil {
		return err
	}
	n.docText = value.NewString(text)
	return nil
}

// DocText returns the documentation string.
func (n *Node) DocText() (string, error) {
	if err := n.guardKind("doc_text", KindDocumentation); err != nil {
		return "", err
	}
	s, _ := n.docText.GetString()
	return s, nil
}

// SetDocIntroduced sets the version at which this documentation string
// became active (spec §4.6: documentation entries are version-scoped
// the same way defaults are).
func (n *Node) SetDocIntroduced(v version.Version) error {
	if err := n.guardKind("set_doc_introduced", KindDocumentation); err != nil {
		return err
	}
	n.docIntroduced = v
	return nil
}

// DocIntroduced returns the documentation's introduced version.
func (n *Node) DocIntroduced() (version.Version, error) {
	if err := n.guardKind("doc_introduced", KindDocumentation); err != nil {
		return version.Version{}, err
	}
	return n.docIntroduced, nil
}

// FinalizeDocumentation attaches n to its parent's unnamed doc list and
// finalizes it (spec §4.6 add_documentation is begin+set+finalize in
// one call at the public API layer; the context layer keeps the two
// steps separate so builders can set text and introduced-version
// first).
func (n *Node) FinalizeDocumentation() error {
	if err := n.guardKind("finalize_documentation", KindDocumentation); err != nil {
		return err
	}
	n.attachUnnamedToParent(&n.parent.docs)
	if err := n.Finalize(); err != nil {
		return err
	}
	if n.root != nil && n.root.kind == KindMold {
		return n.root.UpdateMoldVersion(n.docIntroduced)
	}
	return nil
}

// ActiveDocText returns the text of the Documentation entry active at
// version v: the entry with the greatest introduced version not
// exceeding v (spec §4.6 get_documentation). Returns default_missing
// (reused here for "no documentation entry applies") if none qualify.
func (n *Node) ActiveDocText(v version.Version) (string, error) {
	if err := n.guardKind("get_documentation", KindConfig, KindMold, KindSection, KindKeyval); err != nil {
		return "", err
	}
	var best *Node
	for _, d := range n.docs {
		if d.IsDestroyed() || version.Less(v, d.docIntroduced) {
			continue
		}
		if best == nil || version.Less(best.docIntroduced, d.docIntroduced) {
			best = d
		}
	}
	if best == nil {
		return "", disirerr.Newf(disirerr.DefaultMissing,
			"no documentation entry active at version %s", v)
	}
	s, _ := best.docText.GetString()
	return s, nil
}
