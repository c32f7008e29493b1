// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package yamlcodec is the one concrete reference (de)serialiser for
// spec §6's abstract pkg/serial.Codec contract, built on
// gopkg.in/yaml.v3 (the teacher's chosen YAML library).
//
// Grounded on the teacher's vers.Config/Marshalled double-struct
// pattern (pkg/adapter/config/vers/vers.go): a typed struct carries the
// domain values, and a parallel "Marshalled" shape replaces typed
// inner fields (there, model.SemVer; here, value.Value/version.Version)
// by their string form before handing off to yaml.Marshal/Unmarshal.
package yamlcodec

import (
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/mold"
	"github.com/disir-project/disir/pkg/core/value"
	"github.com/disir-project/disir/pkg/core/version"
	"github.com/disir-project/disir/pkg/serial"
)

var _ serial.Codec = Codec{}

// element is the Marshalled shape of one Section/Keyval: value.Value
// and version.Version are represented as plain strings so yaml.v3 can
// round-trip them without needing custom node-level hooks.
type element struct {
	Name     string    `yaml:"name"`
	Kind     string    `yaml:"kind"`
	Value    string    `yaml:"value,omitempty"`
	Type     string    `yaml:"type,omitempty"`
	Elements []element `yaml:"elements,omitempty"`
}

// document is the Marshalled shape of an entire Config.
type document struct {
	Version  string    `yaml:"version"`
	Elements []element `yaml:"elements"`
}

// Codec implements pkg/serial.Codec over YAML.
type Codec struct{}

// New returns a ready-to-use YAML codec.
func New() *Codec { return &Codec{} }

// Serialise writes root (a Config) to w as YAML, walking its elements
// in insertion order (spec §6). Mold trees are not supported: a Mold
// keyval has no current value, so its GetValue error is returned.
func (Codec) Serialise(w io.Writer, root *context.Node) error {
	doc := document{}
	if v, err := root.Version(); err == nil {
		doc.Version = v.String()
	}
	children, err := root.Elements()
	if err != nil {
		return err
	}
	doc.Elements, err = marshalChildren(children)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(doc)
}

func marshalChildren(children []*context.Node) ([]element, error) {
	out := make([]element, 0, len(children))
	for _, c := range children {
		e := element{}
		name, err := c.Name()
		if err != nil {
			return nil, err
		}
		e.Name = name
		switch c.Kind() {
		case context.KindSection:
			e.Kind = "section"
			grandchildren, err := c.Elements()
			if err != nil {
				return nil, err
			}
			e.Elements, err = marshalChildren(grandchildren)
			if err != nil {
				return nil, err
			}
		case context.KindKeyval:
			e.Kind = "keyval"
			v, err := c.GetValue()
			if err != nil {
				return nil, err
			}
			e.Value = v.String()
			e.Type = v.Type().String()
		default:
			return nil, disirerr.Newf(disirerr.WrongContext, "unexpected element kind %s", c.Kind())
		}
		out = append(out, e)
	}
	return out, nil
}

// Unserialise reconstructs a Config against m from YAML bytes in r,
// preserving element order so the result round-trips (spec §6).
func (Codec) Unserialise(r io.Reader, m *mold.Mold) (*context.Node, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, disirerr.Wrap(disirerr.ConfigInvalid, err)
	}

	cfg, err := context.Begin(nil, context.KindConfig)
	if err != nil {
		return nil, err
	}
	if err := cfg.BindMold(m.Node()); err != nil {
		cfg.Destroy()
		return nil, err
	}
	if doc.Version != "" {
		v, err := version.Parse(doc.Version)
		if err != nil {
			cfg.Destroy()
			return nil, err
		}
		if err := cfg.SetVersion(v); err != nil {
			cfg.Destroy()
			return nil, err
		}
	}
	if err := unmarshalChildren(cfg, doc.Elements); err != nil {
		cfg.Destroy()
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func unmarshalChildren(parent *context.Node, elements []element) error {
	for _, e := range elements {
		switch e.Kind {
		case "section":
			sec, err := context.Begin(parent, context.KindSection)
			if err != nil {
				return err
			}
			if err := sec.SetName(e.Name); err != nil {
				return err
			}
			if err := unmarshalChildren(sec, e.Elements); err != nil {
				return err
			}
			if err := sec.Finalize(); err != nil {
				return err
			}
		case "keyval":
			kv, err := context.Begin(parent, context.KindKeyval)
			if err != nil {
				return err
			}
			if err := kv.SetName(e.Name); err != nil {
				return err
			}
			declared, _ := kv.DeclaredType()
			v, err := parseTyped(declared, e.Type, e.Value)
			if err != nil {
				return err
			}
			if err := kv.SetValue(v); err != nil {
				return err
			}
			if err := kv.Finalize(); err != nil {
				return err
			}
		default:
			return disirerr.Newf(disirerr.ConfigInvalid, "unknown element kind %q", e.Kind)
		}
	}
	return nil
}

func parseTyped(declared value.Type, typeHint, s string) (value.Value, error) {
	t := declared
	if t == value.TypeUnknown {
		t = typeFromHint(typeHint)
	}
	switch t {
	case value.TypeString:
		return value.NewString(s), nil
	case value.TypeEnum:
		return value.NewEnum(s), nil
	case value.TypeBoolean:
		return value.NewBool(s == "True"), nil
	case value.TypeInteger:
		v := value.Zero(value.TypeInteger)
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return value.Value{}, disirerr.Newf(disirerr.ConfigInvalid, "invalid integer %q", s)
		}
		_ = v.SetInt(n)
		return v, nil
	case value.TypeFloat:
		v := value.Zero(value.TypeFloat)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value.Value{}, disirerr.Newf(disirerr.ConfigInvalid, "invalid float %q", s)
		}
		_ = v.SetFloat(f)
		return v, nil
	default:
		return value.Value{}, disirerr.Newf(disirerr.ConfigInvalid, "cannot determine value type for %q", s)
	}
}

func typeFromHint(hint string) value.Type {
	switch hint {
	case "string":
		return value.TypeString
	case "integer":
		return value.TypeInteger
	case "float":
		return value.TypeFloat
	case "boolean":
		return value.TypeBoolean
	case "enum":
		return value.TypeEnum
	default:
		return value.TypeUnknown
	}
}
