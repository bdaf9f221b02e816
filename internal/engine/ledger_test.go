package engine

import (
	"math/rand"
	"testing"

	"github.com/SiRipo92/chess-manager/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestApplyPointsIsIdempotentPerMatch(t *testing.T) {
	scores := map[string]float64{"AB12345": 0, "CD67890": 0}
	m := match.New("AB12345", strPtr("CD67890"))
	require.NoError(t, m.SetResultByCode("V"))

	applyPoints(scores, m)
	applyPoints(scores, m)

	assert.Equal(t, 1.0, scores["AB12345"])
	assert.Equal(t, 0.0, scores["CD67890"])
}

func TestRollbackThenReapplyAfterCorrection(t *testing.T) {
	scores := map[string]float64{"AB12345": 0, "CD67890": 0}
	m := match.New("AB12345", strPtr("CD67890"))
	require.NoError(t, m.SetResultByCode("V"))
	applyPoints(scores, m)

	rollbackPoints(scores, m)
	assert.Equal(t, 0.0, scores["AB12345"])

	require.NoError(t, m.SetResultByCode("N"))
	applyPoints(scores, m)
	assert.Equal(t, 0.5, scores["AB12345"])
	assert.Equal(t, 0.5, scores["CD67890"])
}

func TestRollbackOnUnappliedMatchIsANoOp(t *testing.T) {
	scores := map[string]float64{"AB12345": 2.0}
	m := match.New("AB12345", strPtr("CD67890"))
	require.NoError(t, m.SetResultByCode("V"))

	rollbackPoints(scores, m)
	assert.Equal(t, 2.0, scores["AB12345"])
}

func TestScoreConservationAcrossAScoredRound(t *testing.T) {
	tr := New("Rennes", rand.New(rand.NewSource(8)), nil)
	fillRoster(t, tr, 8)

	r, err := tr.StartFirstRound()
	require.NoError(t, err)
	playRound(t, tr)

	total := 0.0
	for _, m := range r.Matches {
		total += m.Score1 + m.Score2
	}
	assert.Equal(t, float64(len(r.Matches)), total)
}
