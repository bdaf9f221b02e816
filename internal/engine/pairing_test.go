package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idSlice(n int) []string {
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = string(rune('A'+i)) + "A00001"
	}
	return ids
}

func TestPairFirstRoundEvenRosterNoByes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ids := idSlice(8)
	res := pairFirstRound(ids, rng)

	require.Nil(t, res.Bye)
	require.Len(t, res.Pairs, 4)

	seen := make(map[string]bool)
	for _, p := range res.Pairs {
		assert.False(t, seen[p[0]])
		assert.False(t, seen[p[1]])
		seen[p[0]] = true
		seen[p[1]] = true
	}
	assert.Len(t, seen, 8)
}

func TestPairFirstRoundOddRosterAssignsBye(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	ids := idSlice(9)
	res := pairFirstRound(ids, rng)

	require.NotNil(t, res.Bye)
	require.Len(t, res.Pairs, 4)
}

func TestPairSwissAvoidsRematchWhenPossible(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ids := []string{"AA00001", "BB00002", "CC00003", "DD00004"}
	scores := map[string]float64{"AA00001": 1, "BB00002": 1, "CC00003": 0, "DD00004": 0}
	past := map[PairKey]struct{}{
		newPairKey("AA00001", "BB00002"): {},
		newPairKey("CC00003", "DD00004"): {},
	}

	res := pairSwiss(ids, scores, past, rng)
	require.Len(t, res.Pairs, 2)
	for _, p := range res.Pairs {
		_, alreadyPlayed := past[newPairKey(p[0], p[1])]
		assert.False(t, alreadyPlayed, "pairSwiss should not repeat a recorded pair when an alternative exists")
	}
}

func TestPairSwissFallsBackToRematchWhenForced(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	ids := []string{"AA00001", "BB00002"}
	scores := map[string]float64{"AA00001": 1, "BB00002": 1}
	past := map[PairKey]struct{}{
		newPairKey("AA00001", "BB00002"): {},
	}

	res := pairSwiss(ids, scores, past, rng)
	require.Len(t, res.Pairs, 1)
	assert.ElementsMatch(t, []string{"AA00001", "BB00002"}, []string{res.Pairs[0][0], res.Pairs[0][1]})
}

func TestPairTiebreakNormalizesAndPairsLeaders(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	leaders := normalizeLeaders([]string{"aa00001", "BB00002", "bb00002"})
	assert.Equal(t, []string{"AA00001", "BB00002"}, leaders)

	res := pairTiebreak(leaders, rng)
	require.Len(t, res.Pairs, 1)
	require.Nil(t, res.Bye)
}

func TestPairTiebreakOddLeaderListAssignsBye(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	leaders := []string{"AA00001", "BB00002", "CC00003"}
	res := pairTiebreak(leaders, rng)
	require.NotNil(t, res.Bye)
	require.Len(t, res.Pairs, 1)
}
