// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package update implements the Config update engine of spec §4.14: a
// pause-at-conflict / resolve / continue state machine driving a
// Config from its current version to a target version no higher than
// its bound Mold's version.
//
// Grounded on the teacher's Migrator[S]/UpMigrator[S]/DownMigrator[S]/
// Settler[S] family (pkg/core/repo/migrator.go) and the dispatch loop
// in pkg/adapter/config/migrator.go's LoadMigrator: both drive a
// versioned resource through a load -> compare -> settle sequence one
// version step at a time, pausing for external input on divergence.
// Here each Keyval plays the role of one migration step, and a
// conflict is exactly the migrator's "source and destination diverge"
// case, surfaced synchronously instead of via a transaction.
package update

import (
	stdctx "context"
	"log/slog"
	"strconv"

	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/disirlog"
	"github.com/disir-project/disir/pkg/core/value"
	"github.com/disir-project/disir/pkg/core/version"
)

// Status is the update engine's run state.
type Status int

const (
	// StatusRunning means Step can be called again immediately.
	StatusRunning Status = iota
	// StatusConflict means the engine is paused on a conflict; the
	// caller must Resolve, then Continue (or Step/Run) to go on.
	StatusConflict
	// StatusDone means every keyval has been planned; call Commit.
	StatusDone
	// StatusDiscarded means the engine is closed: Commit has applied
	// the plan, or Finished has dropped it.
	StatusDiscarded
)

// plan is one Keyval's resolved action.
type plan struct {
	keyval *context.Node
	value  value.Value
}

// conflictInfo mirrors spec §4.14's conflict_info: the keyval's path,
// the user's current value and the new default, both as strings.
type conflictInfo struct {
	keyval       *context.Node
	currentValue string
	newDefault   string
	newDefaultV  value.Value
}

// Update drives one Config from its old version to a target version.
type Update struct {
	config *context.Node
	mold   *context.Node
	old    version.Version
	target version.Version

	queue   []*context.Node // keyvals not yet planned, insertion order
	plans   []plan
	status  Status
	pending *conflictInfo
}

// Begin starts an update of config to targetVersion (spec §4.14
// begin), which must not exceed the bound mold's version.
func Begin(config *context.Node, targetVersion version.Version) (*Update, error) {
	if config.Kind() != context.KindConfig {
		return nil, disirerr.New(disirerr.WrongContext, "update.Begin requires a config root")
	}
	m, err := config.Mold()
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, disirerr.New(disirerr.MoldMissing, "config has no bound mold")
	}
	moldVersion, _ := m.Version()
	if version.Less(moldVersion, targetVersion) {
		return nil, disirerr.Newf(disirerr.ConflictingSemver,
			"target version %s exceeds mold version %s", targetVersion, moldVersion)
	}
	old, _ := config.Version()

	u := &Update{
		config: config,
		mold:   m,
		old:    old,
		target: targetVersion,
		status: StatusRunning,
	}
	u.collectKeyvals(config)
	return u, nil
}

func (u *Update) collectKeyvals(n *context.Node) {
	children, err := n.Elements()
	if err != nil {
		return
	}
	for _, c := range children {
		if c.Kind() == context.KindKeyval {
			u.queue = append(u.queue, c)
		} else if c.Kind() == context.KindSection {
			u.collectKeyvals(c)
		}
	}
}

// Status returns the engine's current run state.
func (u *Update) Status() Status { return u.status }

// Step advances the engine by one Keyval (spec §4.14): clean upgrades
// are queued into the plan silently; a user override that diverges
// from both old and new defaults pauses the engine in StatusConflict.
// Step is a no-op returning the current status if already paused or
// done.
func (u *Update) Step() (Status, error) {
	if u.status != StatusRunning {
		return u.status, nil
	}
	if len(u.queue) == 0 {
		u.status = StatusDone
		return u.status, nil
	}
	kv := u.queue[0]
	u.queue = u.queue[1:]

	moldEquiv := kv.MoldEquivalent()
	if moldEquiv == nil {
		// No schema correspondence at all; leave the current value as-is.
		cur, _ := kv.GetValue()
		u.plans = append(u.plans, plan{keyval: kv, value: cur})
		return u.Step()
	}

	oldDefault, errOld := moldEquiv.ActiveDefault(u.old)
	newDefault, errNew := moldEquiv.ActiveDefault(u.target)
	cur, _ := kv.GetValue()

	var oldDefaultV, newDefaultV value.Value
	if errOld == nil {
		oldDefaultV, _ = oldDefault.DefaultValue()
	}
	if errNew == nil {
		newDefaultV, _ = newDefault.DefaultValue()
	}

	if errOld == nil && value.Equal(cur, oldDefaultV) {
		// Clean upgrade: track the new default.
		if errNew == nil {
			u.plans = append(u.plans, plan{keyval: kv, value: newDefaultV})
		} else {
			u.plans = append(u.plans, plan{keyval: kv, value: cur})
		}
		return u.Step()
	}

	// A user override is in effect.
	if errNew == nil && value.Equal(cur, newDefaultV) {
		u.plans = append(u.plans, plan{keyval: kv, value: cur})
		return u.Step()
	}

	newDefaultStr := ""
	if errNew == nil {
		newDefaultStr = newDefaultV.String()
	}
	u.pending = &conflictInfo{
		keyval:       kv,
		currentValue: cur.String(),
		newDefault:   newDefaultStr,
		newDefaultV:  newDefaultV,
	}
	u.status = StatusConflict
	disirlog.Info(stdctx.Background(), "update paused on conflict",
		slog.String("keyval", kv.ID()), slog.String("current_value", u.pending.currentValue))
	return u.status, nil
}

// ConflictInfo returns the path, current value and new default of the
// keyval currently paused on, or an error if the engine is not
// paused (spec §4.14 conflict_info).
func (u *Update) ConflictInfo() (keyval *context.Node, currentValue, newDefaultValue string, err error) {
	if u.status != StatusConflict || u.pending == nil {
		return nil, "", "", disirerr.New(disirerr.NoCanDo, "update engine is not paused on a conflict")
	}
	return u.pending.keyval, u.pending.currentValue, u.pending.newDefault, nil
}

// Resolve supplies the value to use for the keyval currently paused
// on, re-checking it against restrictions active at the target
// version; a still-failing value re-enters conflict with the
// restriction-adjusted message (spec §4.14: "re-enters conflict on
// that keyval").
func (u *Update) Resolve(newValue string) error {
	if u.status != StatusConflict || u.pending == nil {
		return disirerr.New(disirerr.NoCanDo, "update engine is not paused on a conflict")
	}
	kv := u.pending.keyval
	declared, _ := kv.DeclaredType()
	v, err := parseAs(declared, newValue)
	if err != nil {
		return err
	}
	moldEquiv := kv.MoldEquivalent()
	if moldEquiv != nil {
		if err := moldEquiv.CheckExclusiveValue(v, u.target); err != nil {
			// Restrictions at the new version reject this value; remain
			// paused with a refreshed message.
			u.pending.currentValue = v.String()
			return err
		}
	}
	u.plans = append(u.plans, plan{keyval: kv, value: v})
	u.pending = nil
	u.status = StatusRunning
	return nil
}

// Continue resumes driving the engine after a successful Resolve,
// running Step to completion or the next conflict.
func (u *Update) Continue() (Status, error) {
	if u.status == StatusConflict {
		return u.status, disirerr.New(disirerr.NoCanDo, "cannot continue while paused, resolve first")
	}
	return u.Step()
}

// Run drives the engine to either StatusDone or StatusConflict,
// calling Step repeatedly while StatusRunning.
func (u *Update) Run() (Status, error) {
	for u.status == StatusRunning {
		if _, err := u.Step(); err != nil {
			return u.status, err
		}
	}
	return u.status, nil
}

// Commit applies every planned value to the live Config and advances
// its bound version to the target (spec §4.14). Must be called only
// once StatusDone.
func (u *Update) Commit() error {
	if u.status != StatusDone {
		return disirerr.New(disirerr.NoCanDo, "update is not finished, cannot commit")
	}
	for _, p := range u.plans {
		if err := p.keyval.SetValue(p.value); err != nil {
			return err
		}
	}
	if err := u.config.SetVersion(u.target); err != nil {
		return err
	}
	u.status = StatusDiscarded
	disirlog.Info(stdctx.Background(), "update committed", slog.String("target_version", u.target.String()))
	return nil
}

// Finished drops any uncommitted changes (spec §4.14 "finished(update)
// at any point drops any uncommitted changes").
func (u *Update) Finished() {
	if u.status != StatusDone && u.status != StatusDiscarded {
		disirlog.Info(stdctx.Background(), "update discarded", slog.Int("queued_remaining", len(u.queue)))
	}
	u.queue = nil
	u.plans = nil
	u.pending = nil
	u.status = StatusDiscarded
}

func parseAs(t value.Type, s string) (value.Value, error) {
	switch t {
	case value.TypeString:
		return value.NewString(s), nil
	case value.TypeEnum:
		return value.NewEnum(s), nil
	case value.TypeBoolean:
		return value.NewBool(s == "True" || s == "true"), nil
	case value.TypeInteger:
		v := value.Zero(value.TypeInteger)
		n, err := parseInt(s)
		if err != nil {
			return value.Value{}, disirerr.Newf(disirerr.InvalidArgument, "invalid integer %q", s)
		}
		_ = v.SetInt(n)
		return v, nil
	case value.TypeFloat:
		v := value.Zero(value.TypeFloat)
		f, err := parseFloat(s)
		if err != nil {
			return value.Value{}, disirerr.Newf(disirerr.InvalidArgument, "invalid float %q", s)
		}
		_ = v.SetFloat(f)
		return v, nil
	default:
		return value.Value{}, disirerr.Newf(disirerr.WrongValueType, "cannot parse value of type %s", t)
	}
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
