package models

import (
	"time"
)

// Enrollment records one user's seat in one tournament. Tournament name,
// game id, and user email are denormalized at enrollment time so listings
// never need joins against records that may have changed since.
//
// At most one enrollment per (user, tournament): enforced by the composite
// unique index, not only by the pre-insert check, so concurrent writers
// cannot slip a duplicate through.
type Enrollment struct {
	ID           string `json:"id" gorm:"primaryKey"`
	TournamentID string `json:"tournament_id" gorm:"not null;index;uniqueIndex:idx_enrollment_user_tournament"`
	UserID       string `json:"user_id" gorm:"not null;index;uniqueIndex:idx_enrollment_user_tournament"`

	TournamentName string `json:"tournament_name"`
	GameID         string `json:"game_id"`
	UserEmail      string `json:"user_email"`

	InGameName string `json:"in_game_name" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
