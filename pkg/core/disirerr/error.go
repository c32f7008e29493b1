// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package disirerr

import (
	"errors"
	"fmt"
)

// Error wraps an underlying error with its taxonomy Kind and, for
// local (per-node) failures, the id of the offending context node
// (spec §7: "local errors... mark the node invalid, store an
// explanatory string on the node"; "global errors... propagate upward
// without storing on the node"). NodeID is empty for global errors.
type Error struct {
	Kind   Kind
	NodeID string
	Err    error
}

// New creates an Error of the given kind wrapping a plain message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf("%s", msg)}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a Kind classification to an existing error.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// OnNode returns a copy of e carrying the given node id, turning a
// global error into a local, per-node diagnostic.
func (e *Error) OnNode(nodeID string) *Error {
	return &Error{Kind: e.Kind, NodeID: nodeID, Err: e.Err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("[%s] (%s) %s", e.Kind, e.NodeID, e.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Err.Error())
}

// Unwrap returns the wrapped error, enabling errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Kind, enabling
// errors.Is(err, disirerr.New(disirerr.NotExist, "")) style checks is
// discouraged; prefer KindOf. Is supports comparing two *Error values
// constructed with the sentinel pattern in tests.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the taxonomy Kind from err, or OK if err is nil, or
// InternalError if err is non-nil but not a *Error.
func KindOf(err error) Kind {
	if err == nil {
		return OK
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return InternalError
}
