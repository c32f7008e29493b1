// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package instance implements the Disir host instance (spec §6, §9
// "Global state"): the long-lived object a caller constructs once per
// process, carrying the plugin registry, an error buffer and a
// configured log level. The level is stored and reported by LogLevel;
// the instance does not apply it to the library's slog output.
//
// Grounded on original_source/include/disir/disir.h's disir_instance
// and on the teacher's appuc.Builder pattern
// (pkg/core/usecase/appuc/builder.go): a builder assembles the moving
// parts (there, repo.Pool/SettingsRepo/repo.Cars; here, the plugin
// registry and bootstrap Options) into one object passed down to every
// other operation.
package instance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/disirlog"
	"github.com/disir-project/disir/pkg/plugin"
)

// Options is the host's own bootstrap configuration (spec §2 AMBIENT
// STACK "Configuration"): never the abstract mold/config document
// format, which always stays behind the serialiser interface.
type Options struct {
	// LogLevel is the level reported by Instance.LogLevel (info if empty).
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	// PluginSearchPath lists directories a real plugin loader would
	// search; the core never loads .so files itself (spec Non-goals),
	// this is carried only so a host's bootstrap file has somewhere to
	// name them.
	PluginSearchPath []string `yaml:"plugin_search_path"`
}

var validate = validator.New()

// LoadOptions parses YAML bootstrap options and validates them
// (grounded on the teacher's vers.Config.Load pattern).
func LoadOptions(data []byte) (*Options, error) {
	var o Options
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, disirerr.Wrap(disirerr.LoadError, err)
	}
	if err := validate.Struct(&o); err != nil {
		return nil, disirerr.Wrap(disirerr.InvalidArgument, err)
	}
	return &o, nil
}

// errorEntry is one buffered diagnostic (spec §6 "error buffer").
type errorEntry struct {
	err error
}

// Instance is the host object: plugin registry, error buffer and log
// level, passed to archive/update/CLI operations that need to resolve
// a group id to a plugin or report a global diagnostic.
type Instance struct {
	registry *plugin.Registry
	level    slog.Level

	errors []errorEntry
}

// Builder assembles an Instance from Options and a plugin registry,
// mirroring the teacher's appuc.Builder: a small interface the caller
// implements once per deployment shape (in-memory-only, filesystem,
// etc.) to produce a ready Instance.
type Builder interface {
	Build(opts *Options) (*Instance, error)
}

// New constructs an Instance directly from options and a registry
// (the common case; Builder exists for hosts that need to vary how
// the registry itself gets populated).
func New(opts *Options, registry *plugin.Registry) (*Instance, error) {
	if opts == nil {
		opts = &Options{}
	}
	level := parseLevel(opts.LogLevel)
	return &Instance{
		registry: registry,
		level:    level,
	}, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Registry returns the instance's plugin registry.
func (in *Instance) Registry() *plugin.Registry { return in.registry }

// LogLevel returns the instance's configured minimum log level.
func (in *Instance) LogLevel() slog.Level { return in.level }

// PushError appends err to the instance's error buffer (spec §6), for
// operations (plugin calls, archive import) that collect diagnostics
// across many entries instead of failing the whole call on the first
// one.
func (in *Instance) PushError(err error) {
	if err == nil {
		return
	}
	in.errors = append(in.errors, errorEntry{err: err})
	disirlog.Error(context.Background(), "instance error buffered", disirlog.Err("error", err))
}

// Errors returns every buffered error in the order they were pushed.
func (in *Instance) Errors() []error {
	out := make([]error, len(in.errors))
	for i, e := range in.errors {
		out[i] = e.err
	}
	return out
}

// ClearErrors empties the error buffer.
func (in *Instance) ClearErrors() {
	in.errors = nil
}

// HasErrors reports whether any error is currently buffered.
func (in *Instance) HasErrors() bool { return len(in.errors) > 0 }

func (in *Instance) String() string {
	return fmt.Sprintf("instance(groups=%d, errors=%d)", len(in.registry.Groups()), len(in.errors))
}
