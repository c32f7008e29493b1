// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package instance_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disir-project/disir/pkg/instance"
	"github.com/disir-project/disir/pkg/plugin"
)

func TestLoadOptionsValid(t *testing.T) {
	opts, err := instance.LoadOptions([]byte("log_level: debug\nplugin_search_path: [\"/opt/plugins\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.Equal(t, []string{"/opt/plugins"}, opts.PluginSearchPath)
}

func TestLoadOptionsRejectsBadLogLevel(t *testing.T) {
	_, err := instance.LoadOptions([]byte("log_level: verbose\n"))
	require.Error(t, err)
}

func TestLoadOptionsRejectsMalformedYAML(t *testing.T) {
	_, err := instance.LoadOptions([]byte("log_level: [unterminated\n"))
	require.Error(t, err)
}

func TestNewDefaultsToInfoLevel(t *testing.T) {
	in, err := instance.New(nil, plugin.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, in.LogLevel())
}

func TestPushErrorBuffersAndClears(t *testing.T) {
	in, err := instance.New(&instance.Options{LogLevel: "warn"}, plugin.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, in.LogLevel())

	assert.False(t, in.HasErrors())
	in.PushError(errors.New("boom"))
	in.PushError(nil)
	require.Len(t, in.Errors(), 1)
	assert.True(t, in.HasErrors())

	in.ClearErrors()
	assert.False(t, in.HasErrors())
	assert.Empty(t, in.Errors())
}

func TestStringReflectsRegistryAndErrorCounts(t *testing.T) {
	r := plugin.NewRegistry()
	in, err := instance.New(nil, r)
	require.NoError(t, err)
	assert.Contains(t, in.String(), "groups=0")
	assert.Contains(t, in.String(), "errors=0")
}
