// Package round implements an ordered sequence of matches bounded by a
// start and (eventual) end timestamp.
package round

import (
	"fmt"
	"time"

	"github.com/SiRipo92/chess-manager/internal/match"
)

const timeLayout = "2006-01-02T15:04:05"

// Round is one scheduled or tiebreak round of a tournament.
type Round struct {
	Number    int
	StartTime string
	EndTime   string
	Matches   []*match.Match
}

// New stamps StartTime to now and returns an empty round.
func New(number int) *Round {
	return &Round{
		Number:    number,
		StartTime: time.Now().Format(timeLayout),
	}
}

// Name is the round's display name, e.g. "Round 1".
func (r *Round) Name() string {
	return fmt.Sprintf("Round %d", r.Number)
}

// AddMatch appends a match to the round.
func (r *Round) AddMatch(m *match.Match) {
	r.Matches = append(r.Matches, m)
}

// EndRound stamps EndTime to now.
func (r *Round) EndRound() {
	r.EndTime = time.Now().Format(timeLayout)
}

// IsClosed reports whether this round is done: EndTime is set, or it
// has matches and every one of them is scored. A round with no matches
// yet is still open.
func (r *Round) IsClosed() bool {
	if r.EndTime != "" {
		return true
	}
	if len(r.Matches) == 0 {
		return false
	}
	for _, m := range r.Matches {
		if !m.IsScored() {
			return false
		}
	}
	return true
}

// ToRecord serializes the round to its persisted shape.
func (r *Round) ToRecord() map[string]interface{} {
	matches := make([]interface{}, len(r.Matches))
	for i, m := range r.Matches {
		matches[i] = m.ToRecord()
	}
	return map[string]interface{}{
		"round_number": r.Number,
		"name":         r.Name(),
		"start_time":   r.StartTime,
		"end_time":     r.EndTime,
		"matches":      matches,
	}
}

// FromRecord reconstructs a Round from its persisted shape, resolving
// match player ids against knownIDs.
func FromRecord(rec map[string]interface{}, knownIDs map[string]struct{}) (*Round, error) {
	number := 0
	switch n := rec["round_number"].(type) {
	case float64:
		number = int(n)
	case int:
		number = n
	}

	r := &Round{Number: number}
	if v, ok := rec["start_time"].(string); ok {
		r.StartTime = v
	}
	if v, ok := rec["end_time"].(string); ok {
		r.EndTime = v
	}

	rawMatches, _ := rec["matches"].([]interface{})
	for _, raw := range rawMatches {
		matchRec, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		m, err := match.FromRecord(matchRec, knownIDs)
		if err != nil {
			return nil, err
		}
		r.Matches = append(r.Matches, m)
	}

	return r, nil
}
