// internal/api/service.go
// Bridges the HTTP surface to the in-memory engine, the JSON
// repository, and the optional cache/websocket side effects.

package api

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/SiRipo92/chess-manager/internal/cache"
	"github.com/SiRipo92/chess-manager/internal/engine"
	"github.com/SiRipo92/chess-manager/internal/match"
	"github.com/SiRipo92/chess-manager/internal/player"
	"github.com/SiRipo92/chess-manager/internal/repository"
	"github.com/SiRipo92/chess-manager/internal/round"
	"github.com/SiRipo92/chess-manager/internal/stats"
	"github.com/SiRipo92/chess-manager/internal/websocket"
)

// ErrNotFound is returned when a named tournament has no matching
// repository record.
var ErrNotFound = errors.New("tournament not found")

// ErrMatchNotFound is returned when a round/match index pair does not
// resolve to a match on the tournament.
var ErrMatchNotFound = errors.New("match not found")

// TournamentService holds every live *engine.Tournament the process
// has touched, keyed by repo_name, and keeps the JSON repository in
// sync after every mutation.
type TournamentService struct {
	repo          *repository.Repository
	cache         *cache.Cache
	hub           *websocket.Hub
	logger        *log.Logger
	defaultRounds int

	mu   sync.Mutex
	live map[string]*engine.Tournament
}

// NewTournamentService wires the repository, the optional Redis cache,
// and the optional websocket hub into one orchestrator. defaultRounds
// is applied to tournaments created without an explicit round count.
func NewTournamentService(repo *repository.Repository, c *cache.Cache, hub *websocket.Hub, defaultRounds int, logger *log.Logger) *TournamentService {
	return &TournamentService{
		repo:          repo,
		cache:         c,
		hub:           hub,
		logger:        logger,
		defaultRounds: defaultRounds,
		live:          make(map[string]*engine.Tournament),
	}
}

func (s *TournamentService) newRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// CreateTournament builds a new tournament, assigns it a stable
// repo_name, and persists its initial record.
func (s *TournamentService) CreateTournament(location, description string, numberRounds int) (*engine.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := engine.New(location, s.newRNG(), s.logger)
	switch {
	case numberRounds > 0:
		t.NumberRounds = numberRounds
	case s.defaultRounds > 0:
		t.NumberRounds = s.defaultRounds
	}
	t.SetDescription(description)
	t.RepoName = s.repo.NextName(location)

	if err := s.persistLocked(t); err != nil {
		return nil, err
	}
	s.live[t.RepoName] = t
	return t, nil
}

func (s *TournamentService) persistLocked(t *engine.Tournament) error {
	rec, err := t.ToDict()
	if err != nil {
		return fmt.Errorf("serialize tournament: %w", err)
	}
	if err := s.repo.SaveTournament(rec); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.InvalidatePattern(fmt.Sprintf("progress:%s*", t.RepoName)); err != nil && s.logger != nil {
			s.logger.Printf("cache invalidation failed for %s: %v", t.RepoName, err)
		}
	}
	return nil
}

func (s *TournamentService) getLocked(name string) (*engine.Tournament, error) {
	if t, ok := s.live[name]; ok {
		return t, nil
	}

	rec, ok := s.repo.GetByName(name)
	if !ok {
		return nil, ErrNotFound
	}

	t, err := engine.FromDict(rec, s.newRNG(), s.logger)
	if err != nil {
		return nil, fmt.Errorf("rebuild tournament %q: %w", name, err)
	}
	s.live[name] = t
	return t, nil
}

// Get returns the tournament named name, loading it from the
// repository on first access so an interrupted tournament resumes
// exactly where its last save left it.
func (s *TournamentService) Get(name string) (*engine.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(name)
}

// List returns every stored tournament record.
func (s *TournamentService) List() []map[string]interface{} {
	return s.repo.LoadAll()
}

// AddPlayer registers a new player on the named tournament.
func (s *TournamentService) AddPlayer(name string, p *player.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getLocked(name)
	if err != nil {
		return err
	}
	if err := t.AddPlayer(p); err != nil {
		return err
	}
	return s.persistLocked(t)
}

// StartFirstRound launches the named tournament.
func (s *TournamentService) StartFirstRound(name string) (*round.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getLocked(name)
	if err != nil {
		return nil, err
	}
	r, err := t.StartFirstRound()
	if err != nil {
		return nil, err
	}
	if err := s.persistLocked(t); err != nil {
		return nil, err
	}
	return r, nil
}

// StartNextRound advances the named tournament to its next scheduled
// round.
func (s *TournamentService) StartNextRound(name string) (*round.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getLocked(name)
	if err != nil {
		return nil, err
	}
	r, err := t.StartNextRound()
	if err != nil {
		return nil, err
	}
	if err := s.persistLocked(t); err != nil {
		return nil, err
	}
	return r, nil
}

// StartTiebreakRound creates an extra round pairing only leaders.
func (s *TournamentService) StartTiebreakRound(name string, leaders []string) (*round.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getLocked(name)
	if err != nil {
		return nil, err
	}
	r, err := t.StartTiebreakRound(leaders)
	if err != nil {
		return nil, err
	}
	if err := s.persistLocked(t); err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.BroadcastTiebreakStarted(t.RepoName, r.Number, leaders)
	}
	return r, nil
}

// RecordMatchResult applies a result code to one match, identified by
// its 1-based round number and its index within that round, then folds
// its points into the ledger. Once every match of that round is scored,
// subscribers are sent a round-closed event.
func (s *TournamentService) RecordMatchResult(name string, roundNumber, matchIndex int, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getLocked(name)
	if err != nil {
		return err
	}

	m, err := findMatch(t, roundNumber, matchIndex)
	if err != nil {
		return err
	}

	if m.PointsApplied() {
		t.RollbackMatchPoints(m)
	}
	if err := m.SetResultByCode(code); err != nil {
		return err
	}
	t.ApplyMatchPoints(m)

	if err := s.persistLocked(t); err != nil {
		return err
	}
	if s.hub != nil {
		for _, r := range t.Rounds {
			if r.Number == roundNumber && r.IsClosed() {
				s.hub.BroadcastRoundClosed(t.RepoName, roundNumber, t.Scores)
			}
		}
	}
	return nil
}

func findMatch(t *engine.Tournament, roundNumber, matchIndex int) (*match.Match, error) {
	for _, r := range t.Rounds {
		if r.Number != roundNumber {
			continue
		}
		if matchIndex < 0 || matchIndex >= len(r.Matches) {
			return nil, ErrMatchNotFound
		}
		return r.Matches[matchIndex], nil
	}
	return nil, ErrMatchNotFound
}

// Finish finalizes the named tournament: stamps completion and resolves
// the winner if unique. The service attaches no WinnerRecorder, so no
// external player directory is notified of the win.
func (s *TournamentService) Finish(name string) (*engine.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getLocked(name)
	if err != nil {
		return nil, err
	}
	t.MarkFinished()
	if err := s.persistLocked(t); err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.BroadcastTournamentFinished(t.RepoName, t.WinnerID)
	}
	return t, nil
}

// AggregatedStats folds every stored tournament into the
// cross-tournament per-player rollup.
func (s *TournamentService) AggregatedStats() map[string]*stats.PlayerStats {
	return stats.Compute(s.repo.LoadAll())
}
