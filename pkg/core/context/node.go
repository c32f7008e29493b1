// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package context

import (
	"fmt"
	"sync/atomic"

	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/element"
	"github.com/disir-project/disir/pkg/core/value"
	"github.com/disir-project/disir/pkg/core/version"
)

var idSeq atomic.Uint64

// Node is the single polymorphic context node (spec §3). See kind.go
// for the design rationale behind using one struct for every kind.
type Node struct {
	id    string
	kind  Kind
	state State

	refcount int
	parent   *Node
	root     *Node
	errMsg   string

	// Composite (Config/Mold/Section) children.
	elements *element.Storage[*Node]

	// Section/Keyval: name and, when rooted in a Config, the
	// corresponding node in the bound mold.
	name      value.Value
	moldEquiv *Node

	// Keyval.
	val          value.Value // current value, only meaningful under a Config root
	declaredType value.Type  // set by SetDeclaredType, or copied from the mold equivalent by SetName under a Config

	// Config.
	mold       *Node
	cfgVersion version.Version

	// Mold.
	moldVersion version.Version

	// Section/Keyval: attached, unnamed child lists (spec §3: these
	// are never part of element storage since they carry no name).
	docs         []*Node
	defaults     []*Node // Keyval, Mold root only
	restrictions []*Node

	// Documentation payload.
	docIntroduced version.Version
	docText       value.Value

	// Default payload.
	defIntroduced version.Version
	defValue      value.Value

	// Restriction payload.
	restrKind        RestrictionKind
	restrIntroduced  version.Version
	restrHasDeprecated bool
	restrDeprecated  version.Version
	restrNumeric     value.Value
	restrRangeMin    value.Value
	restrRangeMax    value.Value
	restrEnum        string
	restrMin         int
	restrMax         int
}

// Begin creates a node of the given kind under parent (nil for roots,
// which must be Config or Mold). The returned node starts
// Constructing with refcount 1 (spec §3 Lifecycle).
func Begin(parent *Node, kind Kind) (*Node, error) {
	if parent == nil {
		if !kind.IsRoot() {
			return nil, disirerr.Newf(disirerr.WrongContext,
				"%s cannot be a root context", kind)
		}
	} else if parent.IsDestroyed() {
		return nil, disirerr.New(disirerr.DestroyedContext, "parent context is destroyed")
	}

	n := &Node{
		id:       fmt.Sprintf("%s#%d", kind, idSeq.Add(1)),
		kind:     kind,
		state:    StateConstructing,
		refcount: 1,
		parent:   parent,
	}
	if kind.IsComposite() {
		n.elements = element.New[*Node]()
	}
	if kind == KindMold {
		n.moldVersion = version.Default()
	}
	if parent == nil {
		n.root = n
	} else {
		n.root = parent.root
		parent.IncRef() // child holds a non-owning backref to parent
	}
	return n, nil
}

// ID returns a diagnostic identifier for the node (not part of the
// spec's API surface, used for logging and per-node error reporting).
func (n *Node) ID() string { return n.id }

// Kind returns the node's kind tag.
func (n *Node) Kind() Kind { return n.kind }

// State returns the node's current flag set.
func (n *Node) State() State { return n.state }

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Root returns the node's Config/Mold root (itself, if it is a root).
func (n *Node) Root() *Node { return n.root }

// RefCount returns the node's current external-holder refcount.
func (n *Node) RefCount() int { return n.refcount }

// IsDestroyed reports whether the node has been destroyed.
func (n *Node) IsDestroyed() bool { return n.state.Has(StateDestroyed) }

// IsConstructing reports whether the node is still under construction.
func (n *Node) IsConstructing() bool { return n.state.Has(StateConstructing) }

// IsFinalized reports whether the node has been finalized.
func (n *Node) IsFinalized() bool { return n.state.Has(StateFinalized) }

// IsInvalid reports whether the node is currently marked invalid.
func (n *Node) IsInvalid() bool { return n.state.Has(StateInvalid) }

// IsFatal reports whether the node's sticky fatal bit is set.
func (n *Node) IsFatal() bool { return n.state.Has(StateFatal) }

// ElementName implements element.Entry: composites are keyed by the
// name of their Section/Keyval wrapper when attached as a child; for
// top-level roots there is no name so this returns "".
func (n *Node) ElementName() string {
	if n.kind == KindSection || n.kind == KindKeyval {
		s, _ := n.name.GetString()
		return s
	}
	return ""
}

// ErrorMessage returns the node's stored diagnostic, if any (the
// context_error operation).
func (n *Node) ErrorMessage() string { return n.errMsg }

// SetFatal sets the permanent, sticky fatal bit (spec §4.12): a parser
// may force a finalize-time failure on this node. Fatal cannot be
// cleared.
func (n *Node) SetFatal(msg string) {
	n.state.set(StateFatal)
	if msg != "" {
		n.errMsg = msg
	}
}

// guardKind returns wrong_context unless the node's kind is in allowed.
func (n *Node) guardKind(op string, allowed ...Kind) error {
	if n.IsDestroyed() {
		return disirerr.Newf(disirerr.DestroyedContext,
			"%s: context %s is destroyed", op, n.id)
	}
	for _, k := range allowed {
		if n.kind == k {
			return nil
		}
	}
	err := disirerr.Newf(disirerr.WrongContext,
		"%s: operation not supported by context kind %s", op, n.kind)
	return err
}

// markInvalid marks n invalid (if not already finalized-and-checked by
// a higher layer) and stores msg as its diagnostic; used by local
// (per-node) failures per spec §7.
func (n *Node) markInvalid(msg string) {
	n.state.set(StateInvalid)
	n.errMsg = msg
}

// clearInvalid clears the invalid flag and diagnostic, used at the
// start of each validation pass (spec §4.13 step 1).
func (n *Node) clearInvalid() {
	n.state.clear(StateInvalid)
	n.errMsg = ""
}

// IncRef increments the node's external-holder refcount (used by
// Collection.Push and explicit holders).
func (n *Node) IncRef() {
	n.refcount++
}

// Put decrements the node's external-holder refcount. If it reaches
// zero the node is torn down (cascading to its structurally-owned
// children and releasing its own hold on its parent), matching spec
// §3 invariant 8.
func (n *Node) Put() {
	n.refcount--
	if n.refcount <= 0 && !n.IsDestroyed() {
		n.teardown()
	}
}

// Destroy forcibly destroys n regardless of outstanding external
// holders (spec §4.5 destroy). Any holder that still references n
// will observe destroyed_context on its next operation (invariant 9).
func (n *Node) Destroy() {
	n.teardown()
}

// teardown performs the actual destruction cascade: recursively tears
// down every structurally-owned child (element storage plus the
// unnamed docs/defaults/restrictions lists), then releases n's own
// hold on its parent, possibly cascading the parent's destruction too.
func (n *Node) teardown() {
	if n.IsDestroyed() {
		return
	}
	n.state.set(StateDestroyed)
	n.state.clear(StateConstructing)
	n.state.clear(StateFinalized)

	if n.elements != nil {
		for _, child := range n.elements.GetAll() {
			child.teardown()
		}
	}
	for _, d := range n.docs {
		d.teardown()
	}
	for _, d := range n.defaults {
		d.teardown()
	}
	for _, r := range n.restrictions {
		r.teardown()
	}

	if n.mold != nil {
		n.mold.Put()
		n.mold = nil
	}

	if n.parent != nil {
		// The child-holds-parent backref from Begin is always present
		// for any non-root node; release it exactly once here.
		n.parent.decrefFromChild()
	}
}

// decrefFromChild releases one hold that a destroyed child used to
// keep on n (the non-owning parent backref from Begin), possibly
// cascading n's own destruction.
func (n *Node) decrefFromChild() {
	n.refcount--
	if n.refcount <= 0 && !n.IsDestroyed() {
		n.teardown()
	}
}

// attachNamedToParent adds n (a Section or Keyval) into its parent's
// element storage under its current name (spec invariant 2). The
// parent-refcount increment itself already happened once, at Begin
// (spec §3: "Parent attachment increments parent's refcount so a
// child can always read its parent" describes that single, permanent
// backref established at creation time, not a second event here);
// attachment to element storage is a distinct, element-storage-only
// concern tracked by StateAttachedToParent.
func (n *Node) attachNamedToParent() error {
	if n.parent == nil {
		return nil
	}
	if n.parent.elements == nil {
		return disirerr.New(disirerr.WrongContext, "parent context has no element storage")
	}
	if err := n.parent.elements.Add(n); err != nil {
		return err
	}
	n.state.set(StateAttachedToParent)
	return nil
}

// attachUnnamedToParent records n (a Documentation/Default/Restriction
// node) on parent's unnamed child list, mirroring attachNamedToParent
// for the non-element-storage children.
func (n *Node) attachUnnamedToParent(list *[]*Node) {
	*list = append(*list, n)
	n.state.set(StateAttachedToParent)
}

// Finalize transitions n from Constructing to Finalized, running
// validation (spec §4.13) and setting/clearing Invalid accordingly.
// Finalizing an already-finalized node is a no-op returning nil (R2).
// A fatal node returns context_in_wrong_state (spec §4.12).
func (n *Node) Finalize() error {
	if n.IsDestroyed() {
		return disirerr.New(disirerr.DestroyedContext, "cannot finalize a destroyed context")
	}
	if n.IsFinalized() {
		return nil
	}
	if n.IsFatal() {
		return disirerr.New(disirerr.ContextInWrongState, "context has a fatal error set")
	}
	status := n.Validate()
	n.state.clear(StateConstructing)
	n.state.set(StateFinalized)
	if status != disirerr.OK {
		return disirerr.Newf(disirerr.InvalidContext,
			"context %s failed validation: %s", n.id, status)
	}
	return nil
}
