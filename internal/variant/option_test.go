package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionAddValue(t *testing.T) {
	o := Option{Name: "Color"}
	require.NoError(t, o.AddValue("  Red ", nil))
	assert.Equal(t, []string{"Red"}, o.Labels())

	assert.ErrorIs(t, o.AddValue("Red", nil), ErrDuplicateOptionValue)
	assert.ErrorIs(t, o.AddValue("   ", nil), ErrEmptyOptionValue)

	require.NoError(t, o.AddValue("red", nil))
	assert.Equal(t, []string{"Red", "red"}, o.Labels())
}

func TestOptionMoveValue(t *testing.T) {
	o := opt("Size", "S", "M", "L", "XL")

	require.NoError(t, o.MoveValue(3, 0))
	assert.Equal(t, []string{"XL", "S", "M", "L"}, o.Labels())

	require.NoError(t, o.MoveValue(0, 2))
	assert.Equal(t, []string{"S", "M", "XL", "L"}, o.Labels())

	assert.ErrorIs(t, o.MoveValue(0, 4), ErrValueIndexOutOfRange)
}

func TestOptionRemoveValue(t *testing.T) {
	o := opt("Size", "S", "M", "L")
	require.NoError(t, o.RemoveValue(1))
	assert.Equal(t, []string{"S", "L"}, o.Labels())
	assert.ErrorIs(t, o.RemoveValue(2), ErrValueIndexOutOfRange)
}

func TestOptionIsValid(t *testing.T) {
	assert.False(t, opt("", "Red").IsValid())
	assert.False(t, opt(" \t", "Red").IsValid())
	assert.False(t, opt("Color").IsValid())
	assert.True(t, opt("Color", "Red").IsValid())
}
