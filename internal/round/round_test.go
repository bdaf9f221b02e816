package round

import (
	"testing"

	"github.com/SiRipo92/chess-manager/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewRoundStampsStartTime(t *testing.T) {
	r := New(1)
	assert.Equal(t, "Round 1", r.Name())
	assert.NotEmpty(t, r.StartTime)
	assert.Empty(t, r.EndTime)
}

func TestIsClosedEmptyRoundStaysOpen(t *testing.T) {
	r := New(1)
	assert.False(t, r.IsClosed())
	r.EndRound()
	assert.True(t, r.IsClosed())
}

func TestIsClosedByEndTime(t *testing.T) {
	r := New(1)
	r.AddMatch(match.New("AB12345", strPtr("CD67890")))
	assert.False(t, r.IsClosed())
	r.EndRound()
	assert.True(t, r.IsClosed())
}

func TestIsClosedByAllScored(t *testing.T) {
	r := New(1)
	m := match.New("AB12345", strPtr("CD67890"))
	r.AddMatch(m)
	assert.False(t, r.IsClosed())
	require.NoError(t, m.SetResultByCode("V"))
	assert.True(t, r.IsClosed())
}

func TestRoundRoundTrip(t *testing.T) {
	r := New(2)
	m := match.New("AB12345", strPtr("CD67890"))
	require.NoError(t, m.SetResultByCode("N"))
	r.AddMatch(m)
	r.AddMatch(match.New("EF11111", nil))
	r.EndRound()

	known := map[string]struct{}{"AB12345": {}, "CD67890": {}, "EF11111": {}}
	rebuilt, err := FromRecord(r.ToRecord(), known)
	require.NoError(t, err)
	assert.Equal(t, r.Number, rebuilt.Number)
	assert.Equal(t, r.EndTime, rebuilt.EndTime)
	require.Len(t, rebuilt.Matches, 2)
	assert.True(t, rebuilt.IsClosed())
}
