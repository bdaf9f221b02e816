package api

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/SiRipo92/chess-manager/internal/player"
	"github.com/SiRipo92/chess-manager/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, dir string) *TournamentService {
	t.Helper()
	repo, err := repository.New(filepath.Join(dir, "tournaments"))
	require.NoError(t, err)
	return NewTournamentService(repo, nil, nil, 4, nil)
}

func registerRoster(t *testing.T, svc *TournamentService, name string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("A%c%05d", 'A'+i%26, i)
		p, err := player.New("Durand", "Alice", "1992-03-14", id)
		require.NoError(t, err)
		require.NoError(t, svc.AddPlayer(name, p))
	}
}

func TestServicePersistsEveryMutation(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir)

	tr, err := svc.CreateTournament("Strasbourg", "open", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, tr.NumberRounds)
	name := tr.RepoName
	require.NotEmpty(t, name)

	registerRoster(t, svc, name, 8)

	r, err := svc.StartFirstRound(name)
	require.NoError(t, err)
	require.Len(t, r.Matches, 4)

	for i := range r.Matches {
		require.NoError(t, svc.RecordMatchResult(name, 1, i, "V"))
	}

	rec, ok := svc.repo.GetByName(name)
	require.True(t, ok)
	assert.Equal(t, "En cours", rec["status"])
}

func TestServiceResumesFromDiskAfterRestart(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir)

	tr, err := svc.CreateTournament("Grenoble", "", 4)
	require.NoError(t, err)
	name := tr.RepoName

	registerRoster(t, svc, name, 8)
	r1, err := svc.StartFirstRound(name)
	require.NoError(t, err)
	for i := range r1.Matches {
		require.NoError(t, svc.RecordMatchResult(name, 1, i, "V"))
	}
	_, err = svc.StartNextRound(name)
	require.NoError(t, err)
	require.NoError(t, svc.RecordMatchResult(name, 2, 0, "N"))

	// A fresh service over the same store simulates a process restart.
	resumed := newTestService(t, dir)
	reloaded, err := resumed.Get(name)
	require.NoError(t, err)

	assert.Equal(t, tr.CurrentRoundNumber, reloaded.CurrentRoundNumber)
	assert.InDeltaMapValues(t, tr.Scores, reloaded.Scores, 0.0001)
	assert.Equal(t, len(tr.PastPairs), len(reloaded.PastPairs))

	scored := 0
	for _, m := range reloaded.Rounds[1].Matches {
		if m.IsScored() {
			scored++
		}
	}
	assert.Equal(t, 1, scored, "only the one scored match of round 2 should be scored after resume")
}

func TestServiceCorrectedResultRollsBackBeforeReapplying(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir)

	tr, err := svc.CreateTournament("Dijon", "", 4)
	require.NoError(t, err)
	name := tr.RepoName

	registerRoster(t, svc, name, 8)
	r, err := svc.StartFirstRound(name)
	require.NoError(t, err)

	m := r.Matches[0]
	require.NoError(t, svc.RecordMatchResult(name, 1, 0, "V"))
	assert.Equal(t, 1.0, tr.Scores[m.Player1ID])

	require.NoError(t, svc.RecordMatchResult(name, 1, 0, "N"))
	assert.Equal(t, 0.5, tr.Scores[m.Player1ID])
	assert.Equal(t, 0.5, tr.Scores[*m.Player2ID])
}

func TestServiceGetUnknownTournament(t *testing.T) {
	svc := newTestService(t, t.TempDir())
	_, err := svc.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}
