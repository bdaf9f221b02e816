package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/SiRipo92/chess-manager/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlayer(t *testing.T, id string) *player.Player {
	t.Helper()
	p, err := player.New("Doe", "Jane", "1990-01-01", id)
	require.NoError(t, err)
	return p
}

func fillRoster(t *testing.T, tr *Tournament, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("A%c%05d", 'A'+i%26, i)
		require.NoError(t, tr.AddPlayer(newTestPlayer(t, id)))
	}
}

// playRound scores every match in the most recent round: player1 always
// wins, exempt byes are left as-is, then folds the round into the
// ledger.
func playRound(t *testing.T, tr *Tournament) {
	t.Helper()
	r := tr.Rounds[len(tr.Rounds)-1]
	for _, m := range r.Matches {
		if !m.IsExempt() {
			require.NoError(t, m.SetResultByCode("V"))
		}
	}
	r.EndRound()
	tr.UpdateScoresFromRound(r)
}

func TestMinimalEightPlayerTournamentProducesUniqueWinner(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := New("Lyon", rng, nil)
	fillRoster(t, tr, 8)

	_, err := tr.StartFirstRound()
	require.NoError(t, err)
	playRound(t, tr)

	for i := 1; i < tr.NumberRounds; i++ {
		_, err := tr.StartNextRound()
		require.NoError(t, err)
		playRound(t, tr)
	}

	_, err = tr.StartNextRound()
	assert.ErrorIs(t, err, ErrNoMoreRounds)

	pairsBeforeTiebreaks := len(tr.PastPairs)

	// With player1 winning every board, each tiebreak round leaves at
	// most half the leaders (rounded up) in the lead, so this loop always
	// terminates.
	for rounds := 0; tr.HaveFirstPlaceTie(); rounds++ {
		require.Less(t, rounds, 10, "tiebreak loop failed to converge")
		_, err := tr.StartTiebreakRound(tr.TiedLeaders())
		require.NoError(t, err)
		playRound(t, tr)
	}
	assert.Equal(t, pairsBeforeTiebreaks, len(tr.PastPairs), "tiebreak rounds must not record past pairs")
	assert.Equal(t, len(tr.Rounds), tr.CurrentRoundNumber)

	tr.MarkFinished()
	assert.Equal(t, "Terminé", tr.Status())
	require.NotNil(t, tr.WinnerID)
	assert.Contains(t, tr.TiedLeaders(), *tr.WinnerID)
}

func TestOddRosterAssignsByeAndCreditsLedger(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := New("Nantes", rng, nil)
	fillRoster(t, tr, 9)

	r, err := tr.StartFirstRound()
	require.NoError(t, err)

	var byeID string
	exemptCount := 0
	for _, m := range r.Matches {
		if m.IsExempt() {
			exemptCount++
			byeID = m.Player1ID
		}
	}
	require.Equal(t, 1, exemptCount)
	assert.Equal(t, 1.0, tr.Scores[byeID])
}

func TestRematchAvoidanceAcrossRoundsOneAndTwo(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	tr := New("Marseille", rng, nil)
	fillRoster(t, tr, 8)

	r1, err := tr.StartFirstRound()
	require.NoError(t, err)
	round1Pairs := make(map[PairKey]struct{})
	for _, m := range r1.Matches {
		if !m.IsExempt() {
			round1Pairs[newPairKey(m.Player1ID, *m.Player2ID)] = struct{}{}
		}
	}
	playRound(t, tr)

	r2, err := tr.StartNextRound()
	require.NoError(t, err)
	for _, m := range r2.Matches {
		if m.IsExempt() {
			continue
		}
		key := newPairKey(m.Player1ID, *m.Player2ID)
		_, repeated := round1Pairs[key]
		assert.False(t, repeated, "round 2 should not repeat a round 1 pairing when alternatives exist")
	}
}

func TestFirstPlaceTieTriggersTiebreakRound(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := New("Toulouse", rng, nil)
	fillRoster(t, tr, 8)

	_, err := tr.StartFirstRound()
	require.NoError(t, err)

	r := tr.Rounds[0]
	for i, m := range r.Matches {
		if m.IsExempt() {
			continue
		}
		if i == 0 {
			require.NoError(t, m.PlayMatch(0.5, 0.5))
		} else {
			require.NoError(t, m.SetResultByCode("V"))
		}
	}
	tr.UpdateScoresFromRound(r)

	for i := 1; i < tr.NumberRounds; i++ {
		_, err := tr.StartNextRound()
		require.NoError(t, err)
		r := tr.Rounds[len(tr.Rounds)-1]
		for _, m := range r.Matches {
			if !m.IsExempt() {
				require.NoError(t, m.PlayMatch(0.5, 0.5))
			}
		}
		tr.UpdateScoresFromRound(r)
	}

	assert.True(t, tr.HaveFirstPlaceTie())
	leaders := tr.TiedLeaders()
	require.GreaterOrEqual(t, len(leaders), 2)

	tb, err := tr.StartTiebreakRound(leaders)
	require.NoError(t, err)
	assert.Equal(t, tr.NumberRounds+1, tb.Number)

	_, err = tr.StartTiebreakRound([]string{"nonexistent1"})
	assert.True(t, errors.Is(err, ErrNoTie) || errors.Is(err, ErrUnknownLeader))
}

func TestResumeAfterCrashViaToDictFromDictRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(123))
	tr := New("Bordeaux", rng, nil)
	fillRoster(t, tr, 8)
	tr.SetDescription("regional open")

	_, err := tr.StartFirstRound()
	require.NoError(t, err)
	playRound(t, tr)

	data, err := tr.ToDict()
	require.NoError(t, err)
	data["custom_sponsor"] = "acme corp"

	rebuilt, err := FromDict(data, rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)

	assert.Equal(t, tr.Location, rebuilt.Location)
	assert.Equal(t, tr.Description, rebuilt.Description)
	assert.Equal(t, tr.CurrentRoundNumber, rebuilt.CurrentRoundNumber)
	assert.Equal(t, len(tr.Players), len(rebuilt.Players))
	assert.Equal(t, len(tr.Rounds), len(rebuilt.Rounds))
	assert.InDeltaMapValues(t, tr.Scores, rebuilt.Scores, 0.0001)

	again, err := rebuilt.ToDict()
	require.NoError(t, err)
	assert.Equal(t, "acme corp", again["custom_sponsor"])
}

func TestAddPlayerGuards(t *testing.T) {
	tr := New("Paris", rand.New(rand.NewSource(1)), nil)
	p := newTestPlayer(t, "AB12345")
	require.NoError(t, tr.AddPlayer(p))
	assert.ErrorIs(t, tr.AddPlayer(p), ErrDuplicatePlayer)

	fillRoster(t, tr, 8)
	_, err := tr.StartFirstRound()
	require.NoError(t, err)

	err = tr.AddPlayer(newTestPlayer(t, "ZZ99999"))
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestStartFirstRoundGuardsRosterSize(t *testing.T) {
	tr := New("Nice", rand.New(rand.NewSource(1)), nil)
	fillRoster(t, tr, 3)
	_, err := tr.StartFirstRound()
	assert.ErrorIs(t, err, ErrRosterTooSmall)
}

type recordingDirectory struct {
	bumped []string
	err    error
}

func (d *recordingDirectory) RecordTournamentWin(nationalID string) error {
	d.bumped = append(d.bumped, nationalID)
	return d.err
}

func TestMarkFinishedBumpsWinnerBestEffort(t *testing.T) {
	dir := &recordingDirectory{}
	tr := New("Angers", rand.New(rand.NewSource(11)), nil)
	tr.SetWinnerRecorder(dir)
	fillRoster(t, tr, 8)

	_, err := tr.StartFirstRound()
	require.NoError(t, err)
	playRound(t, tr)
	for tr.HaveFirstPlaceTie() {
		_, err := tr.StartTiebreakRound(tr.TiedLeaders())
		require.NoError(t, err)
		playRound(t, tr)
	}

	tr.MarkFinished()
	require.NotNil(t, tr.WinnerID)
	assert.Equal(t, []string{*tr.WinnerID}, dir.bumped)
}

func TestMarkFinishedSurvivesDirectoryFailure(t *testing.T) {
	dir := &recordingDirectory{err: fmt.Errorf("directory offline")}
	tr := New("Reims", rand.New(rand.NewSource(12)), nil)
	tr.SetWinnerRecorder(dir)
	fillRoster(t, tr, 8)

	_, err := tr.StartFirstRound()
	require.NoError(t, err)
	playRound(t, tr)
	for tr.HaveFirstPlaceTie() {
		_, err := tr.StartTiebreakRound(tr.TiedLeaders())
		require.NoError(t, err)
		playRound(t, tr)
	}

	tr.MarkFinished()
	assert.Equal(t, "Terminé", tr.Status())
	assert.NotNil(t, tr.WinnerID, "a directory failure must not roll back finalization")
}

func TestStartNextRoundGuardsLifecycle(t *testing.T) {
	tr := New("Lille", rand.New(rand.NewSource(1)), nil)
	fillRoster(t, tr, 8)

	_, err := tr.StartNextRound()
	assert.ErrorIs(t, err, ErrNotStarted)

	_, err = tr.StartFirstRound()
	require.NoError(t, err)

	_, err = tr.StartFirstRound()
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}
