// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package testfixtures builds canonical molds and configs shared by
// the test suites across pkg/core/..., pkg/update, pkg/archive and
// pkg/serial, mirroring the teacher's internal/test/schema package of
// ready-made fixtures for exercising a layered system end to end.
package testfixtures

import (
	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/mold"
	"github.com/disir-project/disir/pkg/core/value"
	"github.com/disir-project/disir/pkg/core/version"
)

// SampleMold builds a small finalized Mold with one section
// ("network") containing two keyvals ("address": string,
// "retry_count": integer), plus a top-level boolean keyval
// ("debug_mode") introduced at version (1,1). This is the schema used
// by every package's tests
// that need "some mold", so behaviour differences are isolated to the
// test itself rather than to fixture drift.
func SampleMold() (*mold.Mold, error) {
	m, err := mold.Begin()
	if err != nil {
		return nil, err
	}
	root := m.Node()

	net, err := context.Begin(root, context.KindSection)
	if err != nil {
		return nil, err
	}
	if err := net.SetName("network"); err != nil {
		return nil, err
	}

	addr, err := context.Begin(net, context.KindKeyval)
	if err != nil {
		return nil, err
	}
	if err := addr.SetName("address"); err != nil {
		return nil, err
	}
	if err := addr.SetDeclaredType(value.TypeString); err != nil {
		return nil, err
	}
	if err := addDefault(addr, version.Default(), value.NewString("127.0.0.1")); err != nil {
		return nil, err
	}
	if err := addr.Finalize(); err != nil {
		return nil, err
	}

	retry, err := context.Begin(net, context.KindKeyval)
	if err != nil {
		return nil, err
	}
	if err := retry.SetName("retry_count"); err != nil {
		return nil, err
	}
	if err := retry.SetDeclaredType(value.TypeInteger); err != nil {
		return nil, err
	}
	if err := addDefault(retry, version.Default(), value.NewInt(3)); err != nil {
		return nil, err
	}
	if err := addRangeRestriction(retry, version.Default(), value.NewInt(0), value.NewInt(10)); err != nil {
		return nil, err
	}
	if err := retry.Finalize(); err != nil {
		return nil, err
	}
	if err := net.Finalize(); err != nil {
		return nil, err
	}

	debug, err := context.Begin(root, context.KindKeyval)
	if err != nil {
		return nil, err
	}
	if err := debug.SetName("debug_mode"); err != nil {
		return nil, err
	}
	if err := debug.SetDeclaredType(value.TypeBoolean); err != nil {
		return nil, err
	}
	if err := addDefault(debug, version.Version{Major: 1, Minor: 1}, value.NewBool(false)); err != nil {
		return nil, err
	}
	if err := debug.Finalize(); err != nil {
		return nil, err
	}

	if err := m.Finalize(); err != nil {
		return nil, err
	}
	return m, nil
}

func addDefault(kv *context.Node, introduced version.Version, v value.Value) error {
	d, err := context.BeginDefault(kv)
	if err != nil {
		return err
	}
	if err := d.SetDefaultIntroduced(introduced); err != nil {
		return err
	}
	if err := d.SetDefaultValue(v); err != nil {
		return err
	}
	return d.FinalizeDefault()
}

func addRangeRestriction(kv *context.Node, introduced version.Version, min, max value.Value) error {
	r, err := context.BeginRestriction(kv, context.RestrictionValueRange)
	if err != nil {
		return err
	}
	if err := r.SetRestrictionIntroduced(introduced); err != nil {
		return err
	}
	if err := r.SetRestrictionRange(min, max); err != nil {
		return err
	}
	return r.FinalizeRestriction()
}

// SampleConfig builds a Config bound to m at its default version with
// every keyval set to its active default.
func SampleConfig(m *mold.Mold) (*context.Node, error) {
	cfg, err := context.Begin(nil, context.KindConfig)
	if err != nil {
		return nil, err
	}
	if err := cfg.BindMold(m.Node()); err != nil {
		return nil, err
	}

	net, err := context.Begin(cfg, context.KindSection)
	if err != nil {
		return nil, err
	}
	if err := net.SetName("network"); err != nil {
		return nil, err
	}

	addr, err := context.Begin(net, context.KindKeyval)
	if err != nil {
		return nil, err
	}
	if err := addr.SetName("address"); err != nil {
		return nil, err
	}
	if err := addr.SetValue(value.NewString("127.0.0.1")); err != nil {
		return nil, err
	}
	if err := addr.Finalize(); err != nil {
		return nil, err
	}

	retry, err := context.Begin(net, context.KindKeyval)
	if err != nil {
		return nil, err
	}
	if err := retry.SetName("retry_count"); err != nil {
		return nil, err
	}
	if err := retry.SetValue(value.NewInt(3)); err != nil {
		return nil, err
	}
	if err := retry.Finalize(); err != nil {
		return nil, err
	}
	if err := net.Finalize(); err != nil {
		return nil, err
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
