// Copyright (c) 2026 The Disir Authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package context_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dcontext "github.com/disir-project/disir/pkg/core/context"
	"github.com/disir-project/disir/pkg/core/disirerr"
	"github.com/disir-project/disir/pkg/core/value"
	"github.com/disir-project/disir/pkg/core/version"
)

func TestBeginRootKindGuard(t *testing.T) {
	_, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)

	_, err = dcontext.Begin(nil, dcontext.KindSection)
	require.Error(t, err)
	assert.Equal(t, disirerr.WrongContext, disirerr.KindOf(err))
}

func TestBeginOnDestroyedParentFails(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)
	m.Destroy()

	_, err = dcontext.Begin(m, dcontext.KindSection)
	require.Error(t, err)
	assert.Equal(t, disirerr.DestroyedContext, disirerr.KindOf(err))
}

func TestChildHoldsBackrefOnParent(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)
	assert.Equal(t, 1, m.RefCount())

	sec, err := dcontext.Begin(m, dcontext.KindSection)
	require.NoError(t, err)
	assert.Equal(t, 2, m.RefCount())
	assert.Equal(t, 1, sec.RefCount())

	sec.Destroy()
	assert.True(t, sec.IsDestroyed())
	assert.Equal(t, 1, m.RefCount())
	assert.False(t, m.IsDestroyed())
}

func TestDestroyCascadesToComposedChildren(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)
	sec, err := dcontext.Begin(m, dcontext.KindSection)
	require.NoError(t, err)
	require.NoError(t, sec.SetName("network"))
	kv, err := dcontext.Begin(sec, dcontext.KindKeyval)
	require.NoError(t, err)
	require.NoError(t, kv.SetDeclaredType(value.TypeInteger))
	require.NoError(t, kv.SetName("retry_count"))

	m.Destroy()
	assert.True(t, m.IsDestroyed())
	assert.True(t, sec.IsDestroyed())
	assert.True(t, kv.IsDestroyed())
}

func buildSampleMold(t *testing.T) (*dcontext.Node, *dcontext.Node, *dcontext.Node) {
	t.Helper()
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)

	sec, err := dcontext.Begin(m, dcontext.KindSection)
	require.NoError(t, err)
	require.NoError(t, sec.SetName("network"))

	kv, err := dcontext.Begin(sec, dcontext.KindKeyval)
	require.NoError(t, err)
	require.NoError(t, kv.SetDeclaredType(value.TypeInteger))
	require.NoError(t, kv.SetName("retry_count"))

	def, err := dcontext.BeginDefault(kv)
	require.NoError(t, err)
	require.NoError(t, def.SetDefaultValue(value.NewInt(3)))
	require.NoError(t, def.SetDefaultIntroduced(version.Default()))
	require.NoError(t, def.FinalizeDefault())

	rng, err := dcontext.BeginRestriction(kv, dcontext.RestrictionValueRange)
	require.NoError(t, err)
	require.NoError(t, rng.SetRestrictionRange(value.NewInt(0), value.NewInt(10)))
	require.NoError(t, rng.SetRestrictionIntroduced(version.Default()))
	require.NoError(t, rng.FinalizeRestriction())

	require.NoError(t, kv.Finalize())
	require.NoError(t, sec.Finalize())
	require.NoError(t, m.Finalize())

	return m, sec, kv
}

func TestSetNameResolvesMoldEquivalent(t *testing.T) {
	m, _, kv := buildSampleMold(t)

	cfg, err := dcontext.Begin(nil, dcontext.KindConfig)
	require.NoError(t, err)
	require.NoError(t, cfg.BindMold(m))

	csec, err := dcontext.Begin(cfg, dcontext.KindSection)
	require.NoError(t, err)
	require.NoError(t, csec.SetName("network"))
	require.NotNil(t, csec.MoldEquivalent())

	ckv, err := dcontext.Begin(csec, dcontext.KindKeyval)
	require.NoError(t, err)
	require.NoError(t, ckv.SetName("retry_count"))
	require.Same(t, kv, ckv.MoldEquivalent())

	dt, err := ckv.DeclaredType()
	require.NoError(t, err)
	assert.Equal(t, value.TypeInteger, dt)

	require.NoError(t, ckv.SetValue(value.NewInt(5)))
	require.NoError(t, ckv.Finalize())
	require.NoError(t, csec.Finalize())
	require.NoError(t, cfg.Finalize())
}

func TestSetNameNotExistStillAttachesAndMarksInvalid(t *testing.T) {
	m, _, _ := buildSampleMold(t)

	cfg, err := dcontext.Begin(nil, dcontext.KindConfig)
	require.NoError(t, err)
	require.NoError(t, cfg.BindMold(m))

	csec, err := dcontext.Begin(cfg, dcontext.KindSection)
	require.NoError(t, err)
	err = csec.SetName("does_not_exist")
	require.Error(t, err)
	assert.Equal(t, disirerr.NotExist, disirerr.KindOf(err))
	assert.True(t, csec.IsInvalid())

	name, nameErr := csec.Name()
	require.NoError(t, nameErr)
	assert.Equal(t, "does_not_exist", name)

	all, err := cfg.Elements()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Same(t, csec, all[0])
}

func TestDocumentationActiveTextPicksGreatestIntroducedNotExceeding(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)

	d1, err := dcontext.BeginDocumentation(m)
	require.NoError(t, err)
	require.NoError(t, d1.SetDocText("v1 text"))
	require.NoError(t, d1.SetDocIntroduced(version.Version{Major: 1, Minor: 0}))
	require.NoError(t, d1.FinalizeDocumentation())

	d2, err := dcontext.BeginDocumentation(m)
	require.NoError(t, err)
	require.NoError(t, d2.SetDocText("v2 text"))
	require.NoError(t, d2.SetDocIntroduced(version.Version{Major: 2, Minor: 0}))
	require.NoError(t, d2.FinalizeDocumentation())

	text, err := m.ActiveDocText(version.Version{Major: 1, Minor: 5})
	require.NoError(t, err)
	assert.Equal(t, "v1 text", text)

	text, err = m.ActiveDocText(version.Version{Major: 3, Minor: 0})
	require.NoError(t, err)
	assert.Equal(t, "v2 text", text)

	_, err = m.ActiveDocText(version.Version{Major: 0, Minor: 5})
	require.Error(t, err)
	assert.Equal(t, disirerr.DefaultMissing, disirerr.KindOf(err))
}

func TestDefaultDuplicateIntroducedRejected(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)
	kv, err := dcontext.Begin(m, dcontext.KindKeyval)
	require.NoError(t, err)
	require.NoError(t, kv.SetDeclaredType(value.TypeInteger))
	require.NoError(t, kv.SetName("count"))

	d1, err := dcontext.BeginDefault(kv)
	require.NoError(t, err)
	require.NoError(t, d1.SetDefaultValue(value.NewInt(1)))
	require.NoError(t, d1.SetDefaultIntroduced(version.Default()))
	require.NoError(t, d1.FinalizeDefault())

	d2, err := dcontext.BeginDefault(kv)
	require.NoError(t, err)
	require.NoError(t, d2.SetDefaultValue(value.NewInt(2)))
	require.NoError(t, d2.SetDefaultIntroduced(version.Default()))
	err = d2.FinalizeDefault()
	require.Error(t, err)
	assert.Equal(t, disirerr.Exists, disirerr.KindOf(err))
}

func TestActiveDefaultAndMoldVersionBump(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)
	kv, err := dcontext.Begin(m, dcontext.KindKeyval)
	require.NoError(t, err)
	require.NoError(t, kv.SetDeclaredType(value.TypeString))
	require.NoError(t, kv.SetName("mode"))

	d1, err := dcontext.BeginDefault(kv)
	require.NoError(t, err)
	require.NoError(t, d1.SetDefaultValue(value.NewString("a")))
	require.NoError(t, d1.SetDefaultIntroduced(version.Version{Major: 1, Minor: 0}))
	require.NoError(t, d1.FinalizeDefault())

	d2, err := dcontext.BeginDefault(kv)
	require.NoError(t, err)
	require.NoError(t, d2.SetDefaultValue(value.NewString("b")))
	require.NoError(t, d2.SetDefaultIntroduced(version.Version{Major: 1, Minor: 3}))
	require.NoError(t, d2.FinalizeDefault())

	v, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, version.Version{Major: 1, Minor: 3}, v)

	active, err := kv.ActiveDefault(version.Version{Major: 1, Minor: 1})
	require.NoError(t, err)
	got, err := active.DefaultValue()
	require.NoError(t, err)
	s, _ := got.GetString()
	assert.Equal(t, "a", s)
}

func TestRestrictionRangeRejectsBadBounds(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)
	kv, err := dcontext.Begin(m, dcontext.KindKeyval)
	require.NoError(t, err)
	require.NoError(t, kv.SetDeclaredType(value.TypeInteger))

	r, err := dcontext.BeginRestriction(kv, dcontext.RestrictionValueRange)
	require.NoError(t, err)
	err = r.SetRestrictionRange(value.NewInt(10), value.NewInt(0))
	require.Error(t, err)
	assert.Equal(t, disirerr.InvalidArgument, disirerr.KindOf(err))
}

func TestRestrictionWrongParentRejected(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)
	sec, err := dcontext.Begin(m, dcontext.KindSection)
	require.NoError(t, err)

	_, err = dcontext.BeginRestriction(sec, dcontext.RestrictionValueRange)
	require.Error(t, err)
	assert.Equal(t, disirerr.WrongContext, disirerr.KindOf(err))
}

func TestCardinalityRestrictionEnforced(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)

	maxR, err := dcontext.BeginRestriction(m, dcontext.RestrictionEntryMax)
	require.NoError(t, err)
	require.NoError(t, maxR.SetRestrictionEntryMax(1))
	require.NoError(t, maxR.SetRestrictionIntroduced(version.Default()))
	require.NoError(t, maxR.FinalizeRestriction())

	kv1, err := dcontext.Begin(m, dcontext.KindKeyval)
	require.NoError(t, err)
	require.NoError(t, kv1.SetDeclaredType(value.TypeString))
	require.NoError(t, kv1.SetName("entry"))
	require.NoError(t, kv1.Finalize())

	require.NoError(t, m.CheckCardinality("entry", version.Default()))

	kv2, err := dcontext.Begin(m, dcontext.KindKeyval)
	require.NoError(t, err)
	require.NoError(t, kv2.SetDeclaredType(value.TypeString))
	require.NoError(t, kv2.SetName("entry"))
	require.NoError(t, kv2.Finalize())

	err = m.CheckCardinality("entry", version.Default())
	require.Error(t, err)
	assert.Equal(t, disirerr.RestrictionViolated, disirerr.KindOf(err))
}

func TestKeyvalSetValueRestrictionViolationConstructingVsFinalized(t *testing.T) {
	m, _, kv := buildSampleMold(t)

	cfg, err := dcontext.Begin(nil, dcontext.KindConfig)
	require.NoError(t, err)
	require.NoError(t, cfg.BindMold(m))
	csec, err := dcontext.Begin(cfg, dcontext.KindSection)
	require.NoError(t, err)
	require.NoError(t, csec.SetName("network"))
	ckv, err := dcontext.Begin(csec, dcontext.KindKeyval)
	require.NoError(t, err)
	require.NoError(t, ckv.SetName("retry_count"))
	require.Same(t, kv, ckv.MoldEquivalent())

	err = ckv.SetValue(value.NewInt(99))
	require.Error(t, err)
	assert.Equal(t, disirerr.InvalidContext, disirerr.KindOf(err))
	assert.True(t, ckv.IsInvalid())

	got, err := ckv.GetValue()
	require.NoError(t, err)
	iv, _ := got.GetInt()
	assert.Equal(t, int64(99), iv)

	require.NoError(t, ckv.SetValue(value.NewInt(5)))
	require.NoError(t, ckv.Finalize())
	assert.False(t, ckv.IsInvalid())

	err = ckv.SetValue(value.NewInt(999))
	require.Error(t, err)
	assert.Equal(t, disirerr.RestrictionViolated, disirerr.KindOf(err))
}

func TestValidatePropagatesWorstChildStatus(t *testing.T) {
	m, _, _ := buildSampleMold(t)

	cfg, err := dcontext.Begin(nil, dcontext.KindConfig)
	require.NoError(t, err)
	require.NoError(t, cfg.BindMold(m))

	csec, err := dcontext.Begin(cfg, dcontext.KindSection)
	require.NoError(t, err)
	err = csec.SetName("missing")
	require.Error(t, err)

	status := cfg.Validate()
	assert.NotEqual(t, disirerr.OK, status)
	assert.True(t, csec.IsInvalid())
}

func TestFinalizeIsIdempotent(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)
	require.NoError(t, m.Finalize())
	require.NoError(t, m.Finalize())
	assert.True(t, m.IsFinalized())
}

func TestFinalizeFatalRejected(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)
	m.SetFatal("forced failure")
	err = m.Finalize()
	require.Error(t, err)
	assert.Equal(t, disirerr.ContextInWrongState, disirerr.KindOf(err))
}

func TestFinalizeOnDestroyedRejected(t *testing.T) {
	m, err := dcontext.Begin(nil, dcontext.KindMold)
	require.NoError(t, err)
	m.Destroy()
	err = m.Finalize()
	require.Error(t, err)
	assert.Equal(t, disirerr.DestroyedContext, disirerr.KindOf(err))
}

func TestConfigVersionCannotExceedMold(t *testing.T) {
	m, _, _ := buildSampleMold(t)
	cfg, err := dcontext.Begin(nil, dcontext.KindConfig)
	require.NoError(t, err)
	require.NoError(t, cfg.BindMold(m))

	moldVersion, err := m.Version()
	require.NoError(t, err)

	tooHigh := version.Version{Major: moldVersion.Major + 1, Minor: 0}
	err = cfg.SetVersion(tooHigh)
	require.Error(t, err)
	assert.Equal(t, disirerr.ConflictingSemver, disirerr.KindOf(err))

	require.NoError(t, cfg.SetVersion(moldVersion))
}
