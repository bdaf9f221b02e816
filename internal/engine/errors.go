package engine

import "errors"

// Sentinel errors for every guard violation the tournament state
// machine can report. Every mutating operation fails fast and mutates
// nothing on error.
var (
	ErrDuplicatePlayer    = errors.New("player already registered")
	ErrRegistrationClosed = errors.New("registration closed: tournament already started")
	ErrRosterTooSmall     = errors.New("roster too small: at least 8 players required")
	ErrAlreadyStarted     = errors.New("tournament already started")
	ErrNotStarted         = errors.New("tournament has not started")
	ErrNoMoreRounds       = errors.New("scheduled rounds exhausted")
	ErrNoTie              = errors.New("no tie: fewer than two distinct leaders")
	ErrUnknownLeader      = errors.New("leader id not on roster")
)
