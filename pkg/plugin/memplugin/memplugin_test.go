// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memplugin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disir-project/disir/internal/testfixtures"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/plugin/memplugin"
)

func TestConfigWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := memplugin.New("test")

	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)

	require.NoError(t, p.ConfigWrite(ctx, "entry-a", cfg))
	got, err := p.ConfigRead(ctx, "entry-a", nil)
	require.NoError(t, err)
	assert.Same(t, cfg, got)

	require.NoError(t, p.ConfigQuery(ctx, "entry-a"))
	err = p.ConfigQuery(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, disirerr.NotExist, disirerr.KindOf(err))
}

func TestConfigReadRejectsWrongMold(t *testing.T) {
	ctx := context.Background()
	p := memplugin.New("test")

	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)
	require.NoError(t, p.ConfigWrite(ctx, "entry-a", cfg))

	other, err := testfixtures.SampleMold()
	require.NoError(t, err)

	_, err = p.ConfigRead(ctx, "entry-a", other.Node())
	require.Error(t, err)
	assert.Equal(t, disirerr.ConfigInvalid, disirerr.KindOf(err))
}

func TestReadOnlyRejectsWrite(t *testing.T) {
	ctx := context.Background()
	p := memplugin.New("test")
	p.MarkReadOnly("locked")

	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)

	err = p.ConfigWrite(ctx, "locked", cfg)
	require.Error(t, err)
	assert.Equal(t, disirerr.PermissionError, disirerr.KindOf(err))
}

func TestConfigEntriesSortedWithWritableFlag(t *testing.T) {
	ctx := context.Background()
	p := memplugin.New("test")
	p.MarkReadOnly("b")

	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)

	require.NoError(t, p.ConfigWrite(ctx, "b", cfg))
	require.NoError(t, p.ConfigWrite(ctx, "a", cfg))

	entries, err := p.ConfigEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].EntryID)
	assert.True(t, entries[0].Writable)
	assert.Equal(t, "b", entries[1].EntryID)
	assert.False(t, entries[1].Writable)
}

func TestConfigRemove(t *testing.T) {
	ctx := context.Background()
	p := memplugin.New("test")
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)
	cfg, err := testfixtures.SampleConfig(m)
	require.NoError(t, err)

	require.NoError(t, p.ConfigWrite(ctx, "entry-a", cfg))
	require.NoError(t, p.ConfigRemove(ctx, "entry-a"))

	err = p.ConfigRemove(ctx, "entry-a")
	require.Error(t, err)
	assert.Equal(t, disirerr.NotExist, disirerr.KindOf(err))
}

func TestMoldWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := memplugin.New("test")
	m, err := testfixtures.SampleMold()
	require.NoError(t, err)

	require.NoError(t, p.MoldWrite(ctx, "schema", m.Node()))
	got, err := p.MoldRead(ctx, "schema")
	require.NoError(t, err)
	assert.Same(t, m.Node(), got)

	require.NoError(t, p.MoldQuery(ctx, "schema"))
}
