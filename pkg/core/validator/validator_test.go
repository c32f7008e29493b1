// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disir-project/disir/internal/testfixtures"
	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/validator"
	"github.com/disir-project/disir/pkg/core/value"
)

func TestValidConfigReportsOK(t *testing.T) {
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)

	result := validator.Validate(cfg)
	assert.Equal(t, disirerr.OK, result.Status)
	assert.Empty(t, result.Invalid)
	assert.True(t, validator.IsValid(cfg))
}

func TestInvalidSectionIsCollected(t *testing.T) {
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)

	cfg, err := context.Begin(nil, context.KindConfig)
	require.NoError(t, err)
	require.NoError(t, cfg.BindMold(m.Node()))

	sec, err := context.Begin(cfg, context.KindSection)
	require.NoError(t, err)
	err = sec.SetName("does_not_exist")
	require.Error(t, err)

	result := validator.Validate(cfg)
	assert.NotEqual(t, disirerr.OK, result.Status)
	require.Len(t, result.Invalid, 2)
	assert.Same(t, cfg, result.Invalid[0])
	assert.Same(t, sec, result.Invalid[1])
	assert.False(t, validator.IsValid(cfg))
}

func TestRestrictionViolationSurfacesOnKeyval(t *testing.T) {
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)

	cfg, err := context.Begin(nil, context.KindConfig)
	require.NoError(t, err)
	require.NoError(t, cfg.BindMold(m.Node()))

	net, err := context.Begin(cfg, context.KindSection)
	require.NoError(t, err)
	require.NoError(t, net.SetName("network"))

	retry, err := context.Begin(net, context.KindKeyval)
	require.NoError(t, err)
	require.NoError(t, retry.SetName("retry_count"))

	// Set an out-of-range value while still constructing: the keyval
	// accepts and stores it, marking itself invalid rather than
	// rejecting outright (spec invariant for draft values).
	err = retry.SetValue(value.NewInt(999))
	require.Error(t, err)

	result := validator.Validate(cfg)
	assert.Equal(t, disirerr.RestrictionViolated, result.Status)
}
