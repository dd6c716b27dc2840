package services

import (
	"testing"
	"time"

	"arena-clash/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every new connection to :memory: opens a fresh database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Game{},
		&models.Tournament{},
		&models.User{},
		&models.Enrollment{},
		&models.Transaction{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, uid, region string, credits, winnings float64) *models.User {
	t.Helper()
	u := &models.User{
		UID:            uid,
		Email:          uid + "@example.com",
		DisplayName:    "Player " + uid,
		Region:         region,
		WalletCredits:  credits,
		WalletWinnings: winnings,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedTournament(t *testing.T, db *gorm.DB, id string, mutate func(*models.Tournament)) *models.Tournament {
	t.Helper()
	now := time.Now()
	tour := &models.Tournament{
		ID:                    id,
		GameID:                "game-1",
		Name:                  "Friday Cup " + id,
		Region:                "EU",
		StartTime:             now.Add(48 * time.Hour),
		RegistrationCloseTime: now.Add(24 * time.Hour),
		TotalSpots:            16,
		SpotsLeft:             16,
		EntryFee:              50,
		EntryFeeCurrency:      "USD",
		Status:                models.TournamentStatusPublished,
	}
	if mutate != nil {
		mutate(tour)
	}
	require.NoError(t, db.Create(tour).Error)
	return tour
}
