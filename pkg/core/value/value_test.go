// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/value"
)

func TestSetGetRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		zero value.Value
		set  func(*value.Value) error
		want string
	}{
		{"string", value.Zero(value.TypeString), func(v *value.Value) error { return v.SetString("hello") }, "hello"},
		{"int", value.Zero(value.TypeInteger), func(v *value.Value) error { return v.SetInt(42) }, "42"},
		{"float", value.Zero(value.TypeFloat), func(v *value.Value) error { return v.SetFloat(3.5) }, "3.5"},
		{"bool-true", value.Zero(value.TypeBoolean), func(v *value.Value) error { return v.SetBool(true) }, "True"},
		{"bool-false", value.Zero(value.TypeBoolean), func(v *value.Value) error { return v.SetBool(false) }, "False"},
		{"enum", value.Zero(value.TypeEnum), func(v *value.Value) error { return v.SetEnum("red") }, "red"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := c.zero
			require.NoError(t, c.set(&v))
			assert.Equal(t, c.want, v.String())
		})
	}
}

func TestSetWrongTypeRejected(t *testing.T) {
	v := value.NewString("x")
	err := v.SetInt(1)
	require.Error(t, err)
	assert.Equal(t, disirerr.WrongValueType, disirerr.KindOf(err))
}

func TestCompare(t *testing.T) {
	a := value.NewInt(1)
	b := value.NewInt(2)
	c, err := value.Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	_, err = value.Compare(a, value.NewString("x"))
	require.Error(t, err)
}

func TestEqual(t *testing.T) {
	assert.True(t, value.Equal(value.NewInt(5), value.NewInt(5)))
	assert.False(t, value.Equal(value.NewInt(5), value.NewInt(6)))
}

func TestStringifyTruncates(t *testing.T) {
	v := value.NewString("hello world")
	buf := make([]byte, 5)
	written, required := v.Stringify(buf)
	assert.Equal(t, 4, written)
	assert.Equal(t, 11, required)
	assert.Equal(t, byte(0), buf[4])
}

func TestStringifyZeroBuf(t *testing.T) {
	v := value.NewString("abc")
	written, required := v.Stringify(nil)
	assert.Equal(t, 0, written)
	assert.Equal(t, 3, required)
}

func TestCopyPropagatesType(t *testing.T) {
	var dst value.Value
	value.Copy(&dst, value.NewFloat(1.5))
	assert.Equal(t, value.TypeFloat, dst.Type())
	f, err := dst.GetFloat()
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)
}
