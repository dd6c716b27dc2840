package services

import (
	"errors"
)

// Domain errors surfaced by the services. Handlers map these to HTTP status
// codes; nothing here is retried automatically.
var (
	// ErrTournamentNotFound is returned when the tournament id resolves to
	// nothing visible to the caller.
	ErrTournamentNotFound = errors.New("tournament not found")

	// ErrGameMismatch is returned when the submitted game id does not match
	// the tournament's game.
	ErrGameMismatch = errors.New("game does not match tournament")

	// ErrRegistrationClosed is returned when the tournament is unpublished,
	// archived, or past its registration close time.
	ErrRegistrationClosed = errors.New("registration is closed")

	// ErrRegionMismatch is returned when the user's region differs from the
	// tournament's region.
	ErrRegionMismatch = errors.New("tournament is not available in your region")

	// ErrAlreadyEnrolled is returned when the user already holds a seat.
	ErrAlreadyEnrolled = errors.New("already enrolled in this tournament")

	// ErrTournamentFull is returned when no spots are left at precondition
	// time.
	ErrTournamentFull = errors.New("tournament is full")

	// ErrInsufficientBalance is returned when credits + winnings cannot
	// cover the entry fee. No mutation has happened at this point.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrSpotUnavailable is returned when the spot was lost to a concurrent
	// enrollee after the wallet debit; the wallet has been restored.
	ErrSpotUnavailable = errors.New("failed to secure a spot, balance restored")

	// ErrEnrollmentFailed is returned when the enrollment row could not be
	// written; the wallet and the spot have both been restored.
	ErrEnrollmentFailed = errors.New("enrollment failed, balance and spot restored")

	ErrUserNotFound  = errors.New("user not found")
	ErrGameNotFound  = errors.New("game not found")
	ErrInvalidRegion = errors.New("invalid region code")
	ErrEmailTaken    = errors.New("email is already registered")
)
