package workers

import (
	"context"
	"testing"
	"time"

	"arena-clash/models"

	"github.com/stretchr/testify/assert"
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

func TestLedgerReconcilerBackfillsMissingRows(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	require.NoError(t, db.Create(&models.Tournament{
		ID: "t1", GameID: "game-1", Name: "Friday Cup", Region: "EU",
		StartTime: now.Add(48 * time.Hour), RegistrationCloseTime: now.Add(24 * time.Hour),
		TotalSpots: 16, SpotsLeft: 14,
		EntryFee: 50, EntryFeeCurrency: "USD",
		Status: models.TournamentStatusPublished,
	}).Error)

	// e1 enrolled cleanly, e2 lost its ledger write, e3 points at a
	// tournament that no longer resolves.
	require.NoError(t, db.Create(&models.Enrollment{
		ID: "e1", TournamentID: "t1", UserID: "u1", InGameName: "player1",
	}).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		ID: "e2", TournamentID: "t1", UserID: "u2", InGameName: "player2",
	}).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		ID: "e3", TournamentID: "gone", UserID: "u3", InGameName: "player3",
	}).Error)
	require.NoError(t, db.Create(&models.Transaction{
		ID: "tx1", UserID: "u1", Type: models.TransactionTypeTournamentEntry,
		Amount: -50, Currency: "USD", RelatedID: "e1",
	}).Error)

	r := NewLedgerReconciler(db)
	repaired, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	var entry models.Transaction
	require.NoError(t, db.First(&entry, "related_id = ?", "e2").Error)
	assert.Equal(t, "u2", entry.UserID)
	assert.Equal(t, models.TransactionTypeTournamentEntry, entry.Type)
	assert.InDelta(t, -50, entry.Amount, 1e-9)
	assert.Equal(t, "USD", entry.Currency)
	assert.Contains(t, entry.Description, "backfilled")

	// Second pass finds nothing new; e3 stays unrepairable, not duplicated.
	repaired, err = r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, repaired)

	var total int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&total).Error)
	assert.EqualValues(t, 2, total)
}
