// Package match implements a single pairing between two players (or one
// player and a bye) and its scored outcome.
package match

import (
	"errors"
	"fmt"

	"github.com/SiRipo92/chess-manager/internal/codec"
)

var (
	// ErrInvalidScore is returned when PlayMatch is given a score pair
	// outside {(1,0),(0,1),(0.5,0.5)}.
	ErrInvalidScore = errors.New("invalid score combination")
	// ErrExemptMatch is returned when a result code other than E is
	// applied to a bye match. PlayMatch on a bye does not return it; it
	// re-applies the exempt outcome instead.
	ErrExemptMatch = errors.New("match is exempt and cannot be scored")
	// ErrUnknownPlayer is returned when a persisted match references an
	// id absent from the roster lookup supplied by the caller.
	ErrUnknownPlayer = errors.New("unknown player id")
)

// Match is a pairing between Player1 and, optionally, Player2. Absence
// of Player2 means an exempt bye: Player1 is immediately credited a
// full point. Player identity is carried by national id only; the
// caller resolves ids to Player records via its own roster lookup.
type Match struct {
	Player1ID string  `json:"player1"`
	Player2ID *string `json:"player2"`
	Score1    float64 `json:"score1"`
	Score2    float64 `json:"score2"`
	Result1   string  `json:"result1"`
	Result2   string  `json:"result2"`

	// applied tracks whether this match's points have been folded into
	// a ledger, so ApplyMatchPoints/RollbackMatchPoints in the engine
	// package are each idempotent without relying on caller discipline.
	applied bool
}

// New constructs a Match. If player2ID is nil, the match is immediately
// scored as an exempt bye for player1.
func New(player1ID string, player2ID *string) *Match {
	m := &Match{Player1ID: player1ID, Player2ID: player2ID}
	if m.IsExempt() {
		m.setExempt()
	}
	return m
}

// IsExempt reports whether this match has no second player.
func (m *Match) IsExempt() bool {
	return m.Player2ID == nil
}

func (m *Match) setExempt() {
	m.Result1 = codec.LabelExempt
	m.Score1 = 1.0
	m.Result2 = ""
	m.Score2 = 0.0
}

// SetResultByCode applies a result to the match from a single-letter
// code for player1 ("V", "D", "N", or "E"). A code other than E on an
// already-exempt match is rejected.
func (m *Match) SetResultByCode(code string) error {
	label, err := codec.CodeToLabel(code)
	if err != nil {
		return err
	}

	if label == codec.LabelExempt {
		m.setExempt()
		return nil
	}
	if m.IsExempt() {
		return ErrExemptMatch
	}

	switch label {
	case codec.LabelVictory:
		m.Result1, m.Result2 = codec.LabelVictory, codec.LabelDefeat
	case codec.LabelDefeat:
		m.Result1, m.Result2 = codec.LabelDefeat, codec.LabelVictory
	case codec.LabelDraw:
		m.Result1, m.Result2 = codec.LabelDraw, codec.LabelDraw
	}

	m.Score1, _ = codec.LabelToPoints(m.Result1)
	m.Score2, _ = codec.LabelToPoints(m.Result2)
	return nil
}

// PlayMatch sets scores directly. Only the three legal tuples are
// accepted: (1,0), (0,1), (0.5,0.5).
func (m *Match) PlayMatch(score1, score2 float64) error {
	if m.IsExempt() {
		m.setExempt()
		return nil
	}

	switch {
	case score1 == 1.0 && score2 == 0.0:
		m.Result1, m.Result2 = codec.LabelVictory, codec.LabelDefeat
	case score1 == 0.0 && score2 == 1.0:
		m.Result1, m.Result2 = codec.LabelDefeat, codec.LabelVictory
	case score1 == 0.5 && score2 == 0.5:
		m.Result1, m.Result2 = codec.LabelDraw, codec.LabelDraw
	default:
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidScore, score1, score2)
	}

	m.Score1, m.Score2 = score1, score2
	return nil
}

// IsScored reports whether this match has a recorded outcome: it is
// exempt, has a non-empty result1, or carries non-default scores.
func (m *Match) IsScored() bool {
	if m.IsExempt() {
		return true
	}
	if m.Result1 != "" {
		return true
	}
	return m.Score1 != 0 || m.Score2 != 0
}

// PointsApplied reports whether this match's points have already been
// folded into a ledger.
func (m *Match) PointsApplied() bool { return m.applied }

// SetPointsApplied marks (or clears) the applied flag. Used by the
// engine's scoring ledger to guard against double application.
func (m *Match) SetPointsApplied(v bool) { m.applied = v }

// ToRecord serializes the match to its persisted shape: ids only, no
// embedded player data.
func (m *Match) ToRecord() map[string]interface{} {
	rec := map[string]interface{}{
		"player1": m.Player1ID,
		"score1":  m.Score1,
		"score2":  m.Score2,
		"result1": m.Result1,
		"result2": m.Result2,
	}
	if m.Player2ID != nil {
		rec["player2"] = *m.Player2ID
	} else {
		rec["player2"] = nil
	}
	return rec
}

// FromRecord reconstructs a Match from its persisted shape. knownIDs is
// the set of national ids present on the owning tournament's roster;
// any referenced id absent from it fails with ErrUnknownPlayer.
func FromRecord(rec map[string]interface{}, knownIDs map[string]struct{}) (*Match, error) {
	p1, _ := rec["player1"].(string)
	if p1 == "" {
		return nil, fmt.Errorf("%w: match has no player1", ErrUnknownPlayer)
	}
	if _, ok := knownIDs[p1]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, p1)
	}

	var p2 *string
	if raw, ok := rec["player2"]; ok && raw != nil {
		id, _ := raw.(string)
		if id != "" {
			if _, ok := knownIDs[id]; !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, id)
			}
			p2 = &id
		}
	}

	m := New(p1, p2)
	if v, ok := rec["score1"]; ok && v != nil {
		m.Score1 = toFloat(v)
	}
	if v, ok := rec["score2"]; ok && v != nil {
		m.Score2 = toFloat(v)
	}
	if v, ok := rec["result1"].(string); ok {
		m.Result1 = v
	}
	if v, ok := rec["result2"].(string); ok {
		m.Result2 = v
	}
	// A reloaded match that already carries a recorded outcome has, by
	// construction, already contributed its points to the persisted
	// ledger; mark it applied so a later rollback/reapply cannot
	// double-credit it.
	if m.IsScored() {
		m.SetPointsApplied(true)
	}
	return m, nil
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
