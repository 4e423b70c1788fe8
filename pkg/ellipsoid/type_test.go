package ellipsoid

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeProperties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ        Type
		name       string
		freeParams int
		cross      bool
	}{
		{Arbitrary, "arbitrary", 9, true},
		{XYEqual, "xy-equal", 8, true},
		{XZEqual, "xz-equal", 8, true},
		{Sphere, "sphere", 4, false},
		{Aligned, "aligned", 6, false},
		{AlignedXYEqual, "aligned-xy-equal", 5, false},
		{AlignedXZEqual, "aligned-xz-equal", 5, false},
	}

	require.Len(t, Types, len(tests))
	for i, tt := range tests {
		assert.Equal(t, tt.typ, Types[i])
		assert.True(t, tt.typ.Valid())
		assert.Equal(t, tt.name, tt.typ.String())
		assert.Equal(t, tt.freeParams, tt.typ.FreeParams())
		assert.Equal(t, tt.cross, tt.typ.HasCrossTerms())
	}

	var zero Type
	assert.Equal(t, Arbitrary, zero)
}

func TestTypeInvalid(t *testing.T) {
	t.Parallel()

	for _, typ := range []Type{-1, 7, 100} {
		assert.False(t, typ.Valid())
		assert.Equal(t, 0, typ.FreeParams())
		assert.Contains(t, typ.String(), "Type(")
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Type
	}{
		{"arbitrary", Arbitrary},
		{"Sphere", Sphere},
		{"xy-equal", XYEqual},
		{"XY_EQUAL", XYEqual},
		{"xzequal", XZEqual},
		{" aligned ", Aligned},
		{"aligned xy equal", AlignedXYEqual},
		{"AlignedXZEqual", AlignedXZEqual},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	for _, input := range []string{"", "ellipse", "xy--equal", "7"} {
		_, err := ParseType(input)
		assert.ErrorIs(t, err, ErrUnknownType, input)
	}
}

func TestTypeFlag(t *testing.T) {
	t.Parallel()

	typ := Sphere
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Var(&typ, "type", "ellipsoid type")

	require.NoError(t, flags.Parse([]string{"--type", "aligned-xz-equal"}))
	assert.Equal(t, AlignedXZEqual, typ)

	err := flags.Parse([]string{"--type", "cube"})
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Equal(t, AlignedXZEqual, typ, "a rejected value leaves the flag unchanged")
}
