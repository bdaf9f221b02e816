package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewExemptMatch(t *testing.T) {
	m := New("AB12345", nil)
	assert.True(t, m.IsExempt())
	assert.Equal(t, "exempt", m.Result1)
	assert.Equal(t, 1.0, m.Score1)
	assert.Equal(t, 0.0, m.Score2)
	assert.True(t, m.IsScored())
}

func TestSetResultByCode(t *testing.T) {
	m := New("AB12345", strPtr("CD67890"))
	require.NoError(t, m.SetResultByCode("v"))
	assert.Equal(t, "victoire", m.Result1)
	assert.Equal(t, "défaite", m.Result2)
	assert.Equal(t, 1.0, m.Score1)
	assert.Equal(t, 0.0, m.Score2)

	require.NoError(t, m.SetResultByCode("N"))
	assert.Equal(t, "nul", m.Result1)
	assert.Equal(t, 0.5, m.Score1)
	assert.Equal(t, 0.5, m.Score2)
}

func TestSetResultByCodeInvalid(t *testing.T) {
	m := New("AB12345", strPtr("CD67890"))
	err := m.SetResultByCode("Z")
	require.Error(t, err)
}

func TestSetResultByCodeOnExemptRejectsNonE(t *testing.T) {
	m := New("AB12345", nil)
	err := m.SetResultByCode("V")
	require.ErrorIs(t, err, ErrExemptMatch)
}

func TestPlayMatch(t *testing.T) {
	m := New("AB12345", strPtr("CD67890"))
	require.NoError(t, m.PlayMatch(0.5, 0.5))
	assert.Equal(t, "nul", m.Result1)
	assert.Equal(t, "nul", m.Result2)

	err := m.PlayMatch(0.3, 0.7)
	require.ErrorIs(t, err, ErrInvalidScore)
}

func TestIsScoredUnscored(t *testing.T) {
	m := New("AB12345", strPtr("CD67890"))
	assert.False(t, m.IsScored())
}

func TestRoundTripRecord(t *testing.T) {
	m := New("AB12345", strPtr("CD67890"))
	require.NoError(t, m.SetResultByCode("V"))

	known := map[string]struct{}{"AB12345": {}, "CD67890": {}}
	rebuilt, err := FromRecord(m.ToRecord(), known)
	require.NoError(t, err)
	assert.Equal(t, m.Player1ID, rebuilt.Player1ID)
	assert.Equal(t, *m.Player2ID, *rebuilt.Player2ID)
	assert.Equal(t, m.Score1, rebuilt.Score1)
	assert.Equal(t, m.Result1, rebuilt.Result1)
}

func TestFromRecordUnknownPlayer(t *testing.T) {
	m := New("AB12345", strPtr("CD67890"))
	known := map[string]struct{}{"AB12345": {}}
	_, err := FromRecord(m.ToRecord(), known)
	require.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestPointsAppliedMarker(t *testing.T) {
	m := New("AB12345", nil)
	assert.False(t, m.PointsApplied())
	m.SetPointsApplied(true)
	assert.True(t, m.PointsApplied())
}
