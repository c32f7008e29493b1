// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package value implements the Disir value cell (spec §4.1): a tagged
// primitive over {string, integer, float, boolean, enum} with
// type-checked get/set, compare, copy and stringify.
//
// Grounded on the teacher's model.SemVer type for the general shape of
// a small value type exposing UnmarshalText/MarshalText/String, here
// generalized into a five-way tagged union since Disir values are
// polymorphic in a way a single semantic version is not.
package value

import (
	"fmt"
	"strconv"

	"github.com/disir-project/disir/pkg/core/disirerr"
)

// Type is the declared type of a Value cell.
type Type int

const (
	TypeUnknown Type = iota
	TypeString
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeEnum
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Value is a tagged primitive cell. The zero Value has TypeUnknown and
// rejects every setter until given a declared type via New*.
type Value struct {
	typ Type
	s   string
	i   int64
	f   float64
	b   bool
}

// New* constructors both declare the cell's type and set its value in
// one step, mirroring the C API's "keyval is created already knowing
// its value type" usage pattern.

func NewString(s string) Value  { return Value{typ: TypeString, s: s} }
func NewInt(i int64) Value      { return Value{typ: TypeInteger, i: i} }
func NewFloat(f float64) Value  { return Value{typ: TypeFloat, f: f} }
func NewBool(b bool) Value      { return Value{typ: TypeBoolean, b: b} }
func NewEnum(s string) Value    { return Value{typ: TypeEnum, s: s} }

// Zero returns an unset value cell declared with the given type. This
// is used when a mold keyval is begun before any default/value is
// assigned.
func Zero(t Type) Value {
	return Value{typ: t}
}

// Type returns the cell's declared type (the type_of operation).
func (v Value) Type() Type { return v.typ }

// wrongType builds the wrong_value_type error for a setter/getter
// invoked against a mismatched cell type.
func wrongType(want, got Type) error {
	return disirerr.Newf(disirerr.WrongValueType,
		"expected %s value, got %s", want, got)
}

// SetString sets a string value. bytes is copied (Go strings are
// already immutable copies once converted), mirroring the C API's
// set_string(bytes, len) which always copies into a private buffer.
func (v *Value) SetString(s string) error {
	if v.typ != TypeString {
		return wrongType(TypeString, v.typ)
	}
	v.s = s
	return nil
}

func (v *Value) SetInt(i int64) error {
	if v.typ != TypeInteger {
		return wrongType(TypeInteger, v.typ)
	}
	v.i = i
	return nil
}

func (v *Value) SetFloat(f float64) error {
	if v.typ != TypeFloat {
		return wrongType(TypeFloat, v.typ)
	}
	v.f = f
	return nil
}

func (v *Value) SetBool(b bool) error {
	if v.typ != TypeBoolean {
		return wrongType(TypeBoolean, v.typ)
	}
	v.b = b
	return nil
}

// SetEnum sets an enum value. Membership in the permitted enum set is
// a restriction concern (spec §4.8), not a property of the cell
// itself.
func (v *Value) SetEnum(s string) error {
	if v.typ != TypeEnum {
		return wrongType(TypeEnum, v.typ)
	}
	v.s = s
	return nil
}

func (v Value) GetString() (string, error) {
	if v.typ != TypeString {
		return "", wrongType(TypeString, v.typ)
	}
	return v.s, nil
}

func (v Value) GetInt() (int64, error) {
	if v.typ != TypeInteger {
		return 0, wrongType(TypeInteger, v.typ)
	}
	return v.i, nil
}

func (v Value) GetFloat() (float64, error) {
	if v.typ != TypeFloat {
		return 0, wrongType(TypeFloat, v.typ)
	}
	return v.f, nil
}

func (v Value) GetBool() (bool, error) {
	if v.typ != TypeBoolean {
		return false, wrongType(TypeBoolean, v.typ)
	}
	return v.b, nil
}

func (v Value) GetEnum() (string, error) {
	if v.typ != TypeEnum {
		return "", wrongType(TypeEnum, v.typ)
	}
	return v.s, nil
}

// String renders the cell in its canonical textual form, independent
// of any buffer size concern. Boolean stringifies to "True"/"False"
// and float formatting is locale-independent decimal (spec §4.1).
func (v Value) String() string {
	switch v.typ {
	case TypeString, TypeEnum:
		return v.s
	case TypeInteger:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeBoolean:
		if v.b {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// Stringify writes v's textual form into buf, mirroring the C API's
// stringify(into_buf): on insufficient buffer it truncates, NUL
// terminates and reports the required size (excluding the NUL) same
// as the non-truncated case. A zero-length buf reports the required
// size and writes nothing.
func (v Value) Stringify(buf []byte) (written int, required int) {
	s := v.String()
	required = len(s)
	if len(buf) == 0 {
		return 0, required
	}
	n := copy(buf, s)
	if n >= len(buf) {
		n = len(buf) - 1
	}
	buf[n] = 0
	return n, required
}

// Compare compares a and b, which must share the same declared type.
// Strings/enums compare lexicographically, numerics numerically,
// booleans false<true.
func Compare(a, b Value) (int, error) {
	if a.typ != b.typ {
		return 0, disirerr.Newf(disirerr.WrongValueType,
			"cannot compare %s with %s", a.typ, b.typ)
	}
	switch a.typ {
	case TypeString, TypeEnum:
		switch {
		case a.s < b.s:
			return -1, nil
		case a.s > b.s:
			return 1, nil
		default:
			return 0, nil
		}
	case TypeInteger:
		switch {
		case a.i < b.i:
			return -1, nil
		case a.i > b.i:
			return 1, nil
		default:
			return 0, nil
		}
	case TypeFloat:
		switch {
		case a.f < b.f:
			return -1, nil
		case a.f > b.f:
			return 1, nil
		default:
			return 0, nil
		}
	case TypeBoolean:
		switch {
		case a.b == b.b:
			return 0, nil
		case !a.b && b.b:
			return -1, nil
		default:
			return 1, nil
		}
	default:
		return 0, disirerr.New(disirerr.InternalError, "comparing unknown-typed values")
	}
}

// Equal reports whether a and b have the same type and value.
func Equal(a, b Value) bool {
	c, err := Compare(a, b)
	return err == nil && c == 0
}

// Copy overwrites *dst with src's type and contents (the copy
// operation); unlike the setters it is not type-checked against dst's
// prior type, since copying is how a cell's type is itself propagated
// (e.g. default -> config keyval value, matching declared type).
func Copy(dst *Value, src Value) {
	*dst = src
}

// Fmt implements fmt.Stringer-friendly formatting for debugging.
func (v Value) Fmt() string {
	return fmt.Sprintf("%s(%s)", v.typ, v.String())
}
