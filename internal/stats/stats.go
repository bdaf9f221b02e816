// Package stats folds a sequence of stored tournament records into
// per-player cross-tournament aggregates.
package stats

import "math"

// PlayerStats is one player's rollup across every tournament folded
// into Compute.
type PlayerStats struct {
	Participations int
	Victoires      int
	Matchs         int
	Points         float64
}

// Compute folds tournaments (as persisted records) into per-player
// PlayerStats, keyed by national_id.
func Compute(tournaments []map[string]interface{}) map[string]*PlayerStats {
	out := make(map[string]*PlayerStats)
	ensure := func(id string) *PlayerStats {
		s, ok := out[id]
		if !ok {
			s = &PlayerStats{}
			out[id] = s
		}
		return s
	}

	for _, tr := range tournaments {
		for id := range participantIDs(tr) {
			ensure(id).Participations++
		}
		if isFinished(tr) {
			for id := range leaderIDs(tr) {
				ensure(id).Victoires++
			}
		}

		rounds, _ := tr["rounds"].([]interface{})
		for _, rr := range rounds {
			rm, ok := rr.(map[string]interface{})
			if !ok {
				continue
			}
			matches, _ := rm["matches"].([]interface{})
			for _, mm := range matches {
				m, ok := mm.(map[string]interface{})
				if !ok {
					continue
				}
				if p1, _ := m["player1"].(string); p1 != "" {
					ensure(p1).Matchs++
					ensure(p1).Points += toFloat(m["score1"])
				}
				if p2raw, ok := m["player2"]; ok && p2raw != nil {
					if p2, _ := p2raw.(string); p2 != "" {
						ensure(p2).Matchs++
						ensure(p2).Points += toFloat(m["score2"])
					}
				}
			}
		}
	}

	for _, s := range out {
		s.Points = math.Round(s.Points*10) / 10
	}
	return out
}

// participantIDs prefers the roster, falls back to ledger keys, and
// finally scans every match for ids, so a record missing "players"
// still counts participation correctly.
func participantIDs(tr map[string]interface{}) map[string]struct{} {
	ids := make(map[string]struct{})

	if players, ok := tr["players"].([]interface{}); ok {
		for _, pp := range players {
			if pm, ok := pp.(map[string]interface{}); ok {
				if id, _ := pm["national_id"].(string); id != "" {
					ids[id] = struct{}{}
				}
			}
		}
		if len(ids) > 0 {
			return ids
		}
	}

	if scores, ok := tr["scores"].(map[string]interface{}); ok {
		for id := range scores {
			ids[id] = struct{}{}
		}
		if len(ids) > 0 {
			return ids
		}
	}

	rounds, _ := tr["rounds"].([]interface{})
	for _, rr := range rounds {
		rm, ok := rr.(map[string]interface{})
		if !ok {
			continue
		}
		matches, _ := rm["matches"].([]interface{})
		for _, mm := range matches {
			m, ok := mm.(map[string]interface{})
			if !ok {
				continue
			}
			if p1, _ := m["player1"].(string); p1 != "" {
				ids[p1] = struct{}{}
			}
			if p2raw, ok := m["player2"]; ok && p2raw != nil {
				if p2, _ := p2raw.(string); p2 != "" {
					ids[p2] = struct{}{}
				}
			}
		}
	}
	return ids
}

func isFinished(tr map[string]interface{}) bool {
	finishedAt, _ := tr["finished_at"].(string)
	status, _ := tr["status"].(string)
	return finishedAt != "" || status == "Terminé"
}

// leaderIDs returns every id holding the tournament's maximum ledger
// score; a tie means every tied id counts as a leader.
func leaderIDs(tr map[string]interface{}) map[string]struct{} {
	scores, ok := tr["scores"].(map[string]interface{})
	if !ok || len(scores) == 0 {
		return nil
	}
	max := math.Inf(-1)
	for _, v := range scores {
		if f := toFloat(v); f > max {
			max = f
		}
	}
	leaders := make(map[string]struct{})
	for id, v := range scores {
		if toFloat(v) == max {
			leaders[id] = struct{}{}
		}
	}
	return leaders
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
