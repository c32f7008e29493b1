// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disir-project/disir/internal/testfixtures"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/query"
)

func TestResolveDottedPath(t *testing.T) {
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)

	n, err := query.Resolve(cfg, "network.address")
	require.NoError(t, err)
	v, err := n.GetValue()
	require.NoError(t, err)
	s, _ := v.GetString()
	assert.Equal(t, "127.0.0.1", s)
}

func TestResolveIndexedSegment(t *testing.T) {
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)

	n, err := query.Resolve(cfg, "network[0].retry_count")
	require.NoError(t, err)
	v, err := n.GetValue()
	require.NoError(t, err)
	iv, _ := v.GetInt()
	assert.Equal(t, int64(3), iv)
}

func TestResolveMissingSegmentIsNotExist(t *testing.T) {
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)

	_, err = query.Resolve(cfg, "network.missing")
	require.Error(t, err)
	assert.Equal(t, disirerr.NotExist, disirerr.KindOf(err))
}

func TestResolveDescendingThroughNonSectionFails(t *testing.T) {
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)

	_, err = query.Resolve(cfg, "network.address.extra")
	require.Error(t, err)
	assert.Equal(t, disirerr.WrongContext, disirerr.KindOf(err))
}

func TestResolveEmptyPathRejected(t *testing.T) {
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)

	_, err = query.Resolve(cfg, "")
	require.Error(t, err)
	assert.Equal(t, disirerr.InvalidArgument, disirerr.KindOf(err))
}

func TestElementsAndFindElements(t *testing.T) {
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)

	all, err := query.Elements(cfg)
	require.NoError(t, err)
	require.Len(t, all, 1)

	matches, err := query.FindElements(all[0], "address")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}
