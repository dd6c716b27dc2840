// models/game.go
package models

import (
	"time"
)

const (
	GameStatusDraft     = "draft"
	GameStatusPublished = "published"
)

type Game struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Genre       string `json:"genre"`

	// Small public asset, served from R2/CDN
	LogoURL string `json:"logo_url"`

	Status string `json:"status" gorm:"default:'draft'"` // draft | published

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
