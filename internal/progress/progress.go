// Package progress derives a tournament's lifecycle status and
// completion percentage from either a raw persisted record or a live
// model, via a shared capability interface.
package progress

import (
	"fmt"
	"math"
)

// Accessor is the capability a progress inspection needs from its
// subject: read a field, write a field, or render the full record.
// DictAccessor and ModelAccessor are its two implementations.
type Accessor interface {
	GetField(name string) (interface{}, bool)
	SetField(name string, value interface{}) error
	ToRecord() (map[string]interface{}, error)
}

// DictAccessor adapts a raw persisted record (as loaded from the
// repository) to the Accessor capability.
type DictAccessor struct {
	Data map[string]interface{}
}

func (d DictAccessor) GetField(name string) (interface{}, bool) {
	v, ok := d.Data[name]
	return v, ok
}

func (d DictAccessor) SetField(name string, value interface{}) error {
	d.Data[name] = value
	return nil
}

func (d DictAccessor) ToRecord() (map[string]interface{}, error) {
	return d.Data, nil
}

// modelTournament is the subset of *engine.Tournament's surface
// ModelAccessor needs, kept narrow to avoid an import cycle between
// engine and progress.
type modelTournament interface {
	Status() string
	GetDescription() string
	SetDescription(string)
	ToDict() (map[string]interface{}, error)
}

// ModelAccessor adapts a live tournament model to the Accessor
// capability.
type ModelAccessor struct {
	Tournament modelTournament
}

func (m ModelAccessor) GetField(name string) (interface{}, bool) {
	switch name {
	case "status":
		return m.Tournament.Status(), true
	case "description":
		return m.Tournament.GetDescription(), true
	default:
		return nil, false
	}
}

func (m ModelAccessor) SetField(name string, value interface{}) error {
	if name != "description" {
		return fmt.Errorf("field %q is not settable on a model accessor", name)
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("description must be a string")
	}
	m.Tournament.SetDescription(s)
	return nil
}

func (m ModelAccessor) ToRecord() (map[string]interface{}, error) {
	return m.Tournament.ToDict()
}

// IsStarted reports whether a.ToRecord()'s subject has begun: a
// non-empty started_at, or a positive current_round_number.
func IsStarted(a Accessor) bool {
	rec, err := a.ToRecord()
	if err != nil {
		return false
	}
	startedAt, _ := rec["started_at"].(string)
	return startedAt != "" || toInt(rec["current_round_number"]) > 0
}

// IsFinished reports whether a.ToRecord()'s subject has concluded: a
// non-empty finished_at, or status "Terminé".
func IsFinished(a Accessor) bool {
	rec, err := a.ToRecord()
	if err != nil {
		return false
	}
	finishedAt, _ := rec["finished_at"].(string)
	status, _ := rec["status"].(string)
	return finishedAt != "" || status == "Terminé"
}

var canonicalLadder = []int{0, 25, 50, 75, 100}

// ProgressPercent is 0 before the first round, 100 once finished, and
// otherwise the share of closed rounds, snapped to the canonical
// ladder when number_rounds == 4.
func ProgressPercent(a Accessor) int {
	if !IsStarted(a) {
		return 0
	}
	if IsFinished(a) {
		return 100
	}

	rec, err := a.ToRecord()
	if err != nil {
		return 0
	}
	numberRounds := toInt(rec["number_rounds"])
	if numberRounds <= 0 {
		return 0
	}

	closed := 0
	rounds, _ := rec["rounds"].([]interface{})
	for _, rr := range rounds {
		if rm, ok := rr.(map[string]interface{}); ok && roundClosed(rm) {
			closed++
		}
	}

	pct := int(math.Round(float64(closed) / float64(numberRounds) * 100))
	if numberRounds == 4 {
		pct = snapToLadder(pct)
	}
	return pct
}

// StatusLabel renders "Terminé", "Non démarré", or "En cours {pct}%".
func StatusLabel(a Accessor) string {
	switch {
	case IsFinished(a):
		return "Terminé"
	case !IsStarted(a):
		return "Non démarré"
	default:
		return fmt.Sprintf("En cours %d%%", ProgressPercent(a))
	}
}

func roundClosed(rm map[string]interface{}) bool {
	if endTime, _ := rm["end_time"].(string); endTime != "" {
		return true
	}
	matches, _ := rm["matches"].([]interface{})
	if len(matches) == 0 {
		return false
	}
	for _, mm := range matches {
		m, ok := mm.(map[string]interface{})
		if !ok || !matchScored(m) {
			return false
		}
	}
	return true
}

func matchScored(m map[string]interface{}) bool {
	if result1, _ := m["result1"].(string); result1 != "" {
		return true
	}
	if p2, ok := m["player2"]; !ok || p2 == nil {
		return true
	}
	return toFloat(m["score1"]) != 0 || toFloat(m["score2"]) != 0
}

func snapToLadder(pct int) int {
	best := canonicalLadder[0]
	bestDiff := absInt(pct - best)
	for _, v := range canonicalLadder[1:] {
		if d := absInt(pct - v); d < bestDiff {
			bestDiff = d
			best = v
		}
	}
	return best
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
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
