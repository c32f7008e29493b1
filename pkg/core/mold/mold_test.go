// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disir-project/disir/internal/testfixtures"
	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/mold"
	"github.com/disir-project/disir/pkg/core/version"
)

func TestVersionIsMaxDescendantIntroduced(t *testing.T) {
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)

	assert.Equal(t, version.Version{Major: 1, Minor: 1}, m.Version())

	recomputed, err := m.RecomputeVersion()
	require.NoError(t, err)
	assert.Equal(t, m.Version(), recomputed)
}

func TestFromNodeRejectsWrongKind(t *testing.T) {
	n, err := context.Begin(nil, context.KindConfig)
	require.NoError(t, err)
	_, err = mold.FromNode(n)
	require.Error(t, err)
	assert.Equal(t, disirerr.WrongContext, disirerr.KindOf(err))
}

func TestDestroyTearsDownEveryDescendant(t *testing.T) {
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	root := m.Node()
	elems, err := root.Elements()
	require.NoError(t, err)
	require.NotEmpty(t, elems)

	m.Destroy()
	assert.True(t, root.IsDestroyed())
	for _, e := range elems {
		assert.True(t, e.IsDestroyed())
	}
}
