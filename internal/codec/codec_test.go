package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeToLabel(t *testing.T) {
	cases := []struct {
		raw   string
		label string
	}{
		{"V", LabelVictory},
		{" v ", LabelVictory},
		{"d", LabelDefeat},
		{"N", LabelDraw},
		{"e", LabelExempt},
	}
	for _, tc := range cases {
		label, err := CodeToLabel(tc.raw)
		require.NoError(t, err)
		assert.Equal(t, tc.label, label)
	}
}

func TestCodeToLabelInvalid(t *testing.T) {
	_, err := CodeToLabel("X")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestLabelToPoints(t *testing.T) {
	cases := []struct {
		label string
		want  float64
	}{
		{LabelVictory, 1.0},
		{LabelDefeat, 0.0},
		{LabelDraw, 0.5},
		{LabelExempt, 1.0},
	}
	for _, tc := range cases {
		got, err := LabelToPoints(tc.label)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := LabelToPoints("nope")
	require.Error(t, err)
}

func TestIsValidCode(t *testing.T) {
	assert.True(t, IsValidCode("v"))
	assert.True(t, IsValidCode(" E "))
	assert.False(t, IsValidCode("Z"))
	assert.False(t, IsValidCode(""))
}
