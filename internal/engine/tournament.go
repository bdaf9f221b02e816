// Package engine implements the tournament state machine: the scoring
// ledger, the pairing protocols, and the lifecycle that turns a roster
// into a sequence of rounds and, eventually, a winner.
package engine

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/SiRipo92/chess-manager/internal/match"
	"github.com/SiRipo92/chess-manager/internal/player"
	"github.com/SiRipo92/chess-manager/internal/round"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02T15:04:05"
	minRoster  = 8
)

// WinnerRecorder is the external player directory's hook for the
// best-effort "tournaments_won" bump. It lives outside the
// tournament's transactional boundary: a failure here must never
// roll back finalization.
type WinnerRecorder interface {
	RecordTournamentWin(nationalID string) error
}

// Tournament is the full in-memory state of one Swiss tournament: its
// roster, its rounds, its ledger, and its rematch history.
type Tournament struct {
	Location           string
	StartDate          string
	EndDate            string
	StartedAt          string
	FinishedAt         string
	Description        string
	NumberRounds       int
	CurrentRoundNumber int
	Players            []*player.Player
	Rounds             []*round.Round
	Scores             map[string]float64
	PastPairs          map[PairKey]struct{}
	RepoName           string
	WinnerID           *string

	rng            *rand.Rand
	logger         *log.Logger
	winnerRecorder WinnerRecorder
	extra          map[string]interface{}
}

// New constructs an empty tournament ready for registration. rng drives
// every pairing decision; pass a seeded source for reproducible tests.
func New(location string, rng *rand.Rand, logger *log.Logger) *Tournament {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Tournament{
		Location:     location,
		NumberRounds: 4,
		Scores:       make(map[string]float64),
		PastPairs:    make(map[PairKey]struct{}),
		rng:          rng,
		logger:       logger,
	}
}

// SetWinnerRecorder wires the best-effort external directory hook.
func (t *Tournament) SetWinnerRecorder(wr WinnerRecorder) { t.winnerRecorder = wr }

// Status derives the lifecycle label: "Terminé", "En cours", or
// "En attente".
func (t *Tournament) Status() string {
	switch {
	case t.FinishedAt != "":
		return "Terminé"
	case t.StartedAt != "":
		return "En cours"
	default:
		return "En attente"
	}
}

// Name is the derived "{location}_{start_date}" display name.
func (t *Tournament) Name() string {
	return fmt.Sprintf("%s_%s", t.Location, t.StartDate)
}

// RegistrationOpen reports whether players may still be added.
func (t *Tournament) RegistrationOpen() bool { return t.CurrentRoundNumber == 0 }

// HasPlayer reports whether id is on the roster.
func (t *Tournament) HasPlayer(nationalID string) bool {
	for _, p := range t.Players {
		if p.NationalID == nationalID {
			return true
		}
	}
	return false
}

// RosterSize returns the number of registered players.
func (t *Tournament) RosterSize() int { return len(t.Players) }

// GetDescription returns the tournament's free-text description.
func (t *Tournament) GetDescription() string { return t.Description }

// SetDescription replaces the tournament's free-text description.
func (t *Tournament) SetDescription(d string) { t.Description = d }

// AddPlayer registers a player, enforcing the no-duplicate and
// registration-open guards.
func (t *Tournament) AddPlayer(p *player.Player) error {
	if !t.RegistrationOpen() {
		return ErrRegistrationClosed
	}
	if t.HasPlayer(p.NationalID) {
		return ErrDuplicatePlayer
	}
	t.Players = append(t.Players, p)
	t.Scores[p.NationalID] = 0.0
	return nil
}

func (t *Tournament) rosterIDs() []string {
	ids := make([]string, len(t.Players))
	for i, p := range t.Players {
		ids[i] = p.NationalID
	}
	return ids
}

func (t *Tournament) rosterHasUniqueIDs() bool {
	seen := make(map[string]struct{}, len(t.Players))
	for _, id := range t.rosterIDs() {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

// StartFirstRound launches the tournament: validates the roster,
// stamps start_date/started_at, and creates round 1 via random
// pairing.
func (t *Tournament) StartFirstRound() (*round.Round, error) {
	if t.CurrentRoundNumber != 0 {
		return nil, ErrAlreadyStarted
	}
	if len(t.Players) < minRoster {
		return nil, ErrRosterTooSmall
	}
	if !t.rosterHasUniqueIDs() {
		return nil, ErrDuplicatePlayer
	}

	if t.StartDate == "" {
		t.StartDate = time.Now().Format(dateLayout)
	}
	if t.StartedAt == "" {
		t.StartedAt = time.Now().Format(timeLayout)
	}
	t.CurrentRoundNumber = 1

	r := round.New(1)
	result := pairFirstRound(t.rosterIDs(), t.rng)
	t.applyPairingResult(r, result, true)
	t.Rounds = append(t.Rounds, r)
	return r, nil
}

// StartNextRound creates the next scheduled round via Swiss pairing.
func (t *Tournament) StartNextRound() (*round.Round, error) {
	if t.CurrentRoundNumber == 0 {
		return nil, ErrNotStarted
	}
	if t.CurrentRoundNumber >= t.NumberRounds {
		return nil, ErrNoMoreRounds
	}

	t.CurrentRoundNumber++
	r := round.New(t.CurrentRoundNumber)
	result := pairSwiss(t.rosterIDs(), t.Scores, t.PastPairs, t.rng)
	t.applyPairingResult(r, result, true)
	t.Rounds = append(t.Rounds, r)
	return r, nil
}

// StartTiebreakRound creates an extra round pairing only the supplied
// leaders. current_round_number may exceed number_rounds.
func (t *Tournament) StartTiebreakRound(leaders []string) (*round.Round, error) {
	normalized := normalizeLeaders(leaders)
	if len(normalized) < 2 {
		return nil, ErrNoTie
	}
	for _, id := range normalized {
		if !t.HasPlayer(id) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLeader, id)
		}
	}

	t.CurrentRoundNumber++
	r := round.New(t.CurrentRoundNumber)
	result := pairTiebreak(normalized, t.rng)
	t.applyPairingResult(r, result, false)
	t.Rounds = append(t.Rounds, r)
	return r, nil
}

// applyPairingResult materializes a pairingResult into matches on r,
// applying bye points immediately and, when recordPastPairs is true
// (every protocol except tiebreak), remembering each real pair.
func (t *Tournament) applyPairingResult(r *round.Round, result pairingResult, recordPastPairs bool) {
	for _, pair := range result.Pairs {
		p2 := pair[1]
		m := match.New(pair[0], &p2)
		r.AddMatch(m)
		if recordPastPairs {
			t.PastPairs[newPairKey(pair[0], pair[1])] = struct{}{}
		}
	}
	if result.Bye != nil {
		m := match.New(*result.Bye, nil)
		r.AddMatch(m)
		applyPoints(t.Scores, m)
	}
}

// TiedLeaders returns the roster ids whose ledger score equals the
// roster's maximum.
func (t *Tournament) TiedLeaders() []string {
	if len(t.Players) == 0 {
		return nil
	}
	max := math.Inf(-1)
	for _, p := range t.Players {
		if s := t.Scores[p.NationalID]; s > max {
			max = s
		}
	}
	var leaders []string
	for _, p := range t.Players {
		if t.Scores[p.NationalID] == max {
			leaders = append(leaders, p.NationalID)
		}
	}
	return leaders
}

// HaveFirstPlaceTie reports whether more than one player shares the
// top score.
func (t *Tournament) HaveFirstPlaceTie() bool {
	return len(t.TiedLeaders()) > 1
}

// ComputeWinnerId returns the unique leader id, or nil if there is a
// tie (or no players).
func (t *Tournament) ComputeWinnerId() *string {
	leaders := t.TiedLeaders()
	if len(leaders) == 1 {
		id := leaders[0]
		return &id
	}
	return nil
}

// MarkFinished stamps end_date/finished_at (if unset), and — if a
// unique winner exists and none is already recorded — sets winner_id
// and best-effort notifies the external player directory.
func (t *Tournament) MarkFinished() {
	if t.EndDate == "" {
		t.EndDate = time.Now().Format(dateLayout)
	}
	if t.FinishedAt == "" {
		t.FinishedAt = time.Now().Format(timeLayout)
	}
	if t.WinnerID == nil {
		if winner := t.ComputeWinnerId(); winner != nil {
			t.WinnerID = winner
			if t.winnerRecorder != nil {
				if err := t.winnerRecorder.RecordTournamentWin(*winner); err != nil && t.logger != nil {
					t.logger.Printf("best-effort tournaments_won bump failed for %s: %v", *winner, err)
				}
			}
		}
	}
}

// UpdateScoresFromRound applies every match in r to the ledger once
// (idempotent per-match via the applied marker).
func (t *Tournament) UpdateScoresFromRound(r *round.Round) {
	for _, m := range r.Matches {
		applyPoints(t.Scores, m)
	}
}

// ApplyMatchPoints folds a single match's points into the ledger.
func (t *Tournament) ApplyMatchPoints(m *match.Match) { applyPoints(t.Scores, m) }

// RollbackMatchPoints undoes a single match's contribution to the
// ledger, e.g. before re-scoring a corrected result.
func (t *Tournament) RollbackMatchPoints(m *match.Match) { rollbackPoints(t.Scores, m) }

var knownTopLevelKeys = map[string]struct{}{
	"name": {}, "location": {}, "start_date": {}, "end_date": {},
	"started_at": {}, "finished_at": {}, "status": {}, "description": {},
	"number_rounds": {}, "current_round_number": {}, "players": {},
	"rounds": {}, "scores": {}, "past_pairs": {}, "winner_id": {},
}

// ToDict renders the full tournament as a persistable record. Any
// unrecognized top-level keys the record was loaded with are carried
// forward untouched.
func (t *Tournament) ToDict() (map[string]interface{}, error) {
	playerRecords := make([]interface{}, len(t.Players))
	for i, p := range t.Players {
		rec, err := p.ToMap()
		if err != nil {
			return nil, err
		}
		playerRecords[i] = rec
	}

	roundRecords := make([]interface{}, len(t.Rounds))
	for i, r := range t.Rounds {
		roundRecords[i] = r.ToRecord()
	}

	scores := make(map[string]interface{}, len(t.Scores))
	for id, s := range t.Scores {
		scores[id] = s
	}

	pastPairs := make([]interface{}, 0, len(t.PastPairs))
	for pk := range t.PastPairs {
		pastPairs = append(pastPairs, []interface{}{pk[0], pk[1]})
	}

	winnerID := ""
	if t.WinnerID != nil {
		winnerID = *t.WinnerID
	}

	name := t.RepoName
	if name == "" {
		name = t.Name()
	}

	out := map[string]interface{}{
		"name":                 name,
		"location":             t.Location,
		"start_date":           t.StartDate,
		"end_date":             t.EndDate,
		"started_at":           t.StartedAt,
		"finished_at":          t.FinishedAt,
		"status":               t.Status(),
		"description":          t.Description,
		"number_rounds":        t.NumberRounds,
		"current_round_number": t.CurrentRoundNumber,
		"players":              playerRecords,
		"rounds":               roundRecords,
		"scores":               scores,
		"past_pairs":           pastPairs,
		"winner_id":            winnerID,
	}
	for k, v := range t.extra {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out, nil
}

// FromDict reconstructs a Tournament from a persisted record, as
// produced by ToDict or decoded from the repository's JSON file.
func FromDict(data map[string]interface{}, rng *rand.Rand, logger *log.Logger) (*Tournament, error) {
	location, _ := data["location"].(string)
	t := New(location, rng, logger)

	t.StartDate, _ = data["start_date"].(string)
	t.EndDate, _ = data["end_date"].(string)
	t.StartedAt, _ = data["started_at"].(string)
	t.FinishedAt, _ = data["finished_at"].(string)
	t.Description, _ = data["description"].(string)
	t.RepoName, _ = data["name"].(string)

	t.NumberRounds = 4
	if nr, ok := data["number_rounds"]; ok {
		t.NumberRounds = toInt(nr, 4)
	}
	if crn, ok := data["current_round_number"]; ok {
		t.CurrentRoundNumber = toInt(crn, 0)
	}
	if wid, ok := data["winner_id"].(string); ok && wid != "" {
		winner := wid
		t.WinnerID = &winner
	}

	if rawPlayers, ok := data["players"].([]interface{}); ok {
		for _, rp := range rawPlayers {
			pm, ok := rp.(map[string]interface{})
			if !ok {
				continue
			}
			p, err := player.FromMap(pm)
			if err != nil {
				return nil, err
			}
			t.Players = append(t.Players, p)
		}
	}

	known := make(map[string]struct{}, len(t.Players))
	for _, p := range t.Players {
		known[p.NationalID] = struct{}{}
	}

	if rawRounds, ok := data["rounds"].([]interface{}); ok {
		for _, rr := range rawRounds {
			rm, ok := rr.(map[string]interface{})
			if !ok {
				continue
			}
			r, err := round.FromRecord(rm, known)
			if err != nil {
				return nil, err
			}
			t.Rounds = append(t.Rounds, r)
		}
	}

	if rawScores, ok := data["scores"].(map[string]interface{}); ok {
		for id, v := range rawScores {
			t.Scores[id] = toFloat(v)
		}
	} else {
		for _, p := range t.Players {
			t.Scores[p.NationalID] = 0.0
		}
	}

	if rawPairs, ok := data["past_pairs"].([]interface{}); ok {
		for _, rp := range rawPairs {
			pair, ok := rp.([]interface{})
			if !ok || len(pair) != 2 {
				continue
			}
			a, _ := pair[0].(string)
			b, _ := pair[1].(string)
			if a != "" && b != "" {
				t.PastPairs[newPairKey(a, b)] = struct{}{}
			}
		}
	}

	extra := make(map[string]interface{})
	for k, v := range data {
		if _, known := knownTopLevelKeys[k]; !known {
			extra[k] = v
		}
	}
	t.extra = extra

	return t, nil
}

func toInt(v interface{}, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return fallback
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
