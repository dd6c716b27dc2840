package models

import (
	"time"
)

const (
	TournamentStatusDraft     = "draft"
	TournamentStatusPublished = "published"
	TournamentStatusArchived  = "archived"
)

// Tournament represents one paid-entry tournament. Capacity invariant:
// 0 <= SpotsLeft <= TotalSpots, before and after every enrollment attempt.
// Tournaments are never deleted during normal operation; the archiver flips
// them to archived once StartTime passes.
type Tournament struct {
	ID     string `json:"id" gorm:"primaryKey"`
	GameID string `json:"game_id" gorm:"not null;index"`
	Name   string `json:"name" gorm:"not null"`
	Region string `json:"region" gorm:"type:varchar(4);not null;index"`

	StartTime             time.Time `json:"start_time" gorm:"not null"`
	RegistrationCloseTime time.Time `json:"registration_close_time" gorm:"not null"`

	TotalSpots int `json:"total_spots" gorm:"not null"`
	SpotsLeft  int `json:"spots_left" gorm:"not null"`

	EntryFee         float64 `json:"entry_fee" gorm:"default:0"`
	EntryFeeCurrency string  `json:"entry_fee_currency" gorm:"type:varchar(8);default:'USD'"`
	PrizePool        string  `json:"prize_pool"` // free text, e.g. "500 USD + merch"

	IsSpecial    bool   `json:"is_special" gorm:"default:false"`
	MainPhotoURL string `json:"main_photo_url"`

	Status string `json:"status" gorm:"default:'draft'"` // draft | published | archived

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Game Game `json:"game,omitempty" gorm:"foreignKey:GameID"`

	// Calculated, not stored
	EnrolledCount int64 `json:"enrolled_count,omitempty" gorm:"-"`
}

// FilledSpots is the number of seats taken so far.
func (t *Tournament) FilledSpots() int {
	return t.TotalSpots - t.SpotsLeft
}

// RegistrationOpen reports whether enrollment is still allowed at the given instant.
func (t *Tournament) RegistrationOpen(now time.Time) bool {
	return t.Status == TournamentStatusPublished && now.Before(t.RegistrationCloseTime)
}
