// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package plugin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disir-project/disir/pkg/plugin"
	"github.com/disir-project/disir/pkg/plugin/memplugin"
)

func TestIsNamespace(t *testing.T) {
	assert.True(t, plugin.IsNamespace("hosts/"))
	assert.False(t, plugin.IsNamespace("hosts"))
	assert.False(t, plugin.IsNamespace(""))
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := plugin.NewRegistry()
	p := memplugin.New("groupA")
	require.NoError(t, r.Register(p))

	got, err := r.Get("groupA")
	require.NoError(t, err)
	assert.Same(t, p, got)

	assert.ElementsMatch(t, []string{"groupA"}, r.Groups())
}

func TestRegistryRejectsDuplicateGroup(t *testing.T) {
	r := plugin.NewRegistry()
	require.NoError(t, r.Register(memplugin.New("groupA")))
	err := r.Register(memplugin.New("groupA"))
	require.Error(t, err)
}

func TestRegistryGetMissingGroup(t *testing.T) {
	r := plugin.NewRegistry()
	_, err := r.Get("missing")
	require.Error(t, err)
}

func TestWritableEntriesSkipsNamespacesAndReadOnly(t *testing.T) {
	ctx := context.Background()
	r := plugin.NewRegistry()
	p := memplugin.New("groupA")
	require.NoError(t, r.Register(p))

	require.NoError(t, p.ConfigWrite(ctx, "writable", nil))
	require.NoError(t, p.ConfigWrite(ctx, "hosts/", nil))
	require.NoError(t, p.ConfigWrite(ctx, "locked", nil))
	p.MarkReadOnly("locked")

	out, err := r.WritableEntries(ctx)
	require.NoError(t, err)
	entries := out["groupA"]
	require.Len(t, entries, 1)
	assert.Equal(t, "writable", entries[0].EntryID)
}
