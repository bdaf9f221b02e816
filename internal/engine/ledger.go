package engine

import "github.com/SiRipo92/chess-manager/internal/match"

// applyPoints folds m's points into scores, guarded by m's own applied
// marker so a repeated call is a no-op. Mutates scores in place.
func applyPoints(scores map[string]float64, m *match.Match) {
	if m.PointsApplied() {
		return
	}
	scores[m.Player1ID] += m.Score1
	if m.Player2ID != nil {
		scores[*m.Player2ID] += m.Score2
	}
	m.SetPointsApplied(true)
}

// rollbackPoints subtracts m's points from scores, guarded the same
// way: a match that was never applied is left untouched.
func rollbackPoints(scores map[string]float64, m *match.Match) {
	if !m.PointsApplied() {
		return
	}
	scores[m.Player1ID] -= m.Score1
	if m.Player2ID != nil {
		scores[*m.Player2ID] -= m.Score2
	}
	m.SetPointsApplied(false)
}
