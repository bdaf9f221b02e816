// Package player implements the validated player record: identity,
// normalization, and the flat JSON shape the repository persists.
package player

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// MinBirthYear is the earliest acceptable birth year, per the
// canonical player record.
const MinBirthYear = 1915

var (
	nameRE = regexp.MustCompile(`^[\p{L}' -]+$`)
	idRE   = regexp.MustCompile(`^[A-Z]{2}\d{5}$`)
)

// InvalidFieldError reports that a player attribute failed validation.
type InvalidFieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %s=%q: %s", e.Field, e.Value, e.Reason)
}

// ErrInvalidField is the sentinel every InvalidFieldError wraps, so
// callers can `errors.Is(err, player.ErrInvalidField)` without caring
// which field failed.
var ErrInvalidField = errors.New("invalid player field")

func (e *InvalidFieldError) Unwrap() error { return ErrInvalidField }

func invalidField(field, value, reason string) error {
	return &InvalidFieldError{Field: field, Value: value, Reason: reason}
}

// Player is a tournament participant's identity record. MatchHistory is
// an opaque passthrough: the engine never reads it for scoring (scoring
// is owned by the tournament's ledger) but preserves it verbatim across
// a load/save cycle for implementations of the source that populated it.
type Player struct {
	LastName       string          `json:"last_name"`
	FirstName      string          `json:"first_name"`
	Birthdate      string          `json:"birthdate"`
	NationalID     string          `json:"national_id"`
	DateEnrolled   string          `json:"date_enrolled"`
	TournamentsWon int             `json:"tournaments_won"`
	MatchHistory   json.RawMessage `json:"match_history,omitempty"`
}

// New validates and constructs a Player. Names are normalized to title
// case, the national id to uppercase; date_enrolled defaults to today.
func New(lastName, firstName, birthdate, nationalID string) (*Player, error) {
	p := &Player{DateEnrolled: time.Now().Format(dateLayout)}
	if err := p.SetLastName(lastName); err != nil {
		return nil, err
	}
	if err := p.SetFirstName(firstName); err != nil {
		return nil, err
	}
	if err := p.SetBirthdate(birthdate); err != nil {
		return nil, err
	}
	if err := p.SetNationalID(nationalID); err != nil {
		return nil, err
	}
	return p, nil
}

func validateName(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", invalidField(field, value, "must not be empty")
	}
	if !nameRE.MatchString(trimmed) {
		return "", invalidField(field, value, "must contain only letters, apostrophes, hyphens, and spaces")
	}
	return titleCase(trimmed), nil
}

// titleCase capitalizes the first letter of each run of letters,
// leaving separators (space, hyphen, apostrophe) untouched, so
// "jean-paul o'brien" becomes "Jean-Paul O'Brien".
func titleCase(s string) string {
	runes := []rune(strings.ToLower(s))
	capitalizeNext := true
	for i, r := range runes {
		if capitalizeNext && (r >= 'a' && r <= 'z' || r > 127) {
			runes[i] = []rune(strings.ToUpper(string(r)))[0]
			capitalizeNext = false
		} else if r == ' ' || r == '-' || r == '\'' {
			capitalizeNext = true
		} else {
			capitalizeNext = false
		}
	}
	return string(runes)
}

// SetLastName validates and applies a new last name.
func (p *Player) SetLastName(v string) error {
	n, err := validateName("last_name", v)
	if err != nil {
		return err
	}
	p.LastName = n
	return nil
}

// SetFirstName validates and applies a new first name.
func (p *Player) SetFirstName(v string) error {
	n, err := validateName("first_name", v)
	if err != nil {
		return err
	}
	p.FirstName = n
	return nil
}

// SetBirthdate validates that v is YYYY-MM-DD, strictly in the past,
// with a year in [MinBirthYear, current year].
func (p *Player) SetBirthdate(v string) error {
	birth, err := time.Parse(dateLayout, v)
	if err != nil {
		return invalidField("birthdate", v, "must be formatted YYYY-MM-DD")
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !birth.Before(today) {
		return invalidField("birthdate", v, "must be strictly in the past")
	}
	if birth.Year() < MinBirthYear || birth.Year() > now.Year() {
		return invalidField("birthdate", v, fmt.Sprintf("year must be between %d and %d", MinBirthYear, now.Year()))
	}
	p.Birthdate = v
	return nil
}

// SetNationalID validates and uppercases v: two letters then five
// digits, e.g. "AB12345".
func (p *Player) SetNationalID(v string) error {
	normalized := strings.ToUpper(strings.TrimSpace(v))
	if !idRE.MatchString(normalized) {
		return invalidField("national_id", v, "must be two letters followed by five digits")
	}
	p.NationalID = normalized
	return nil
}

// ToMap renders the player in the flat record shape the repository
// persists, via its json tags.
func (p *Player) ToMap() (map[string]interface{}, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// FromMap reconstructs a Player from its persisted record shape. It
// trusts the stored data rather than re-running field validation,
// since the record was produced by an already-validated Player.
func FromMap(m map[string]interface{}) (*Player, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var p Player
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Age computes the player's age from Birthdate relative to today,
// with the standard month/day adjustment.
func (p *Player) Age() (int, error) {
	birth, err := time.Parse(dateLayout, p.Birthdate)
	if err != nil {
		return 0, invalidField("birthdate", p.Birthdate, "must be formatted YYYY-MM-DD")
	}
	now := time.Now()
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, nil
}
