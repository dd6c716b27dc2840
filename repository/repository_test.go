package repository

import (
	"context"
	"sync"
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

func seedTournament(t *testing.T, db *gorm.DB, id string, totalSpots, spotsLeft int) *models.Tournament {
	t.Helper()
	now := time.Now()
	tour := &models.Tournament{
		ID:                    id,
		GameID:                "game-1",
		Name:                  "Cup " + id,
		Region:                "EU",
		StartTime:             now.Add(48 * time.Hour),
		RegistrationCloseTime: now.Add(24 * time.Hour),
		TotalSpots:            totalSpots,
		SpotsLeft:             spotsLeft,
		EntryFee:              50,
		EntryFeeCurrency:      "USD",
		Status:                models.TournamentStatusPublished,
	}
	require.NoError(t, db.Create(tour).Error)
	return tour
}

func TestReserveSpot(t *testing.T) {
	db := newTestDB(t)
	repo := NewTournamentRepo(db)
	ctx := context.Background()
	seedTournament(t, db, "t1", 4, 2)

	tour, err := repo.ReserveSpot(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, tour.SpotsLeft)

	tour, err = repo.ReserveSpot(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 0, tour.SpotsLeft)

	_, err = repo.ReserveSpot(ctx, "t1")
	require.ErrorIs(t, err, ErrNoSpotsLeft)

	_, err = repo.ReserveSpot(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReserveSpotConcurrentLastSpot(t *testing.T) {
	db := newTestDB(t)
	repo := NewTournamentRepo(db)
	seedTournament(t, db, "t1", 8, 1)

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.ReserveSpot(context.Background(), "t1")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, ErrNoSpotsLeft)
		}
	}
	assert.Equal(t, 1, winners)

	var tour models.Tournament
	require.NoError(t, db.First(&tour, "id = ?", "t1").Error)
	assert.Equal(t, 0, tour.SpotsLeft)
}

func TestReleaseSpotCappedAtTotal(t *testing.T) {
	db := newTestDB(t)
	repo := NewTournamentRepo(db)
	ctx := context.Background()
	seedTournament(t, db, "t1", 4, 3)

	require.NoError(t, repo.ReleaseSpot(ctx, "t1"))
	var tour models.Tournament
	require.NoError(t, db.First(&tour, "id = ?", "t1").Error)
	assert.Equal(t, 4, tour.SpotsLeft)

	// Already at capacity, a second release must not overshoot.
	require.NoError(t, repo.ReleaseSpot(ctx, "t1"))
	require.NoError(t, db.First(&tour, "id = ?", "t1").Error)
	assert.Equal(t, 4, tour.SpotsLeft)
}

func TestArchivePast(t *testing.T) {
	db := newTestDB(t)
	repo := NewTournamentRepo(db)
	now := time.Now()

	past := seedTournament(t, db, "past", 8, 0)
	require.NoError(t, db.Model(past).Update("start_time", now.Add(-time.Hour)).Error)
	seedTournament(t, db, "future", 8, 8)
	draft := seedTournament(t, db, "draft-past", 8, 8)
	require.NoError(t, db.Model(draft).Updates(map[string]interface{}{
		"start_time": now.Add(-time.Hour),
		"status":     models.TournamentStatusDraft,
	}).Error)

	n, err := repo.ArchivePast(context.Background(), now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var pastTour models.Tournament
	require.NoError(t, db.First(&pastTour, "id = ?", "past").Error)
	assert.Equal(t, models.TournamentStatusArchived, pastTour.Status)
	var futureTour models.Tournament
	require.NoError(t, db.First(&futureTour, "id = ?", "future").Error)
	assert.Equal(t, models.TournamentStatusPublished, futureTour.Status)
	var draftTour models.Tournament
	require.NoError(t, db.First(&draftTour, "id = ?", "draft-past").Error)
	assert.Equal(t, models.TournamentStatusDraft, draftTour.Status)
}

func TestUserRepoCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{
		UID: "u1", Email: "Player@Example.com", DisplayName: "P1", Region: "EU",
	}))

	// Emails are normalized to lowercase, so this collides.
	err := repo.Create(ctx, &models.User{
		UID: "u2", Email: "player@example.com", DisplayName: "P2", Region: "EU",
	})
	require.ErrorIs(t, err, ErrDuplicate)

	u, err := repo.GetByEmail(ctx, "PLAYER@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UID)
	assert.Equal(t, "player@example.com", u.Email)
}

func TestDebitWallet(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.User{
		UID: "u1", Email: "u1@example.com", DisplayName: "P1", Region: "EU",
		WalletCredits: 30, WalletWinnings: 100,
	}))

	u, err := repo.DebitWallet(ctx, "u1", 30, 20)
	require.NoError(t, err)
	assert.InDelta(t, 0, u.WalletCredits, 1e-9)
	assert.InDelta(t, 80, u.WalletWinnings, 1e-9)

	// A debit that would drive a component negative is refused whole.
	_, err = repo.DebitWallet(ctx, "u1", 10, 0)
	require.ErrorIs(t, err, ErrWalletShort)

	u, err = repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 0, u.WalletCredits, 1e-9)
	assert.InDelta(t, 80, u.WalletWinnings, 1e-9)

	_, err = repo.DebitWallet(ctx, "ghost", 1, 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetWalletRestoresSnapshot(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.User{
		UID: "u1", Email: "u1@example.com", DisplayName: "P1", Region: "EU",
		WalletCredits: 30, WalletWinnings: 100,
	}))

	snapshot := models.WalletBalance{Credits: 30, Winnings: 100}
	_, err := repo.DebitWallet(ctx, "u1", 30, 20)
	require.NoError(t, err)

	require.NoError(t, repo.SetWallet(ctx, "u1", snapshot))
	u, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 30, u.WalletCredits, 1e-9)
	assert.InDelta(t, 100, u.WalletWinnings, 1e-9)

	require.ErrorIs(t, repo.SetWallet(ctx, "ghost", snapshot), ErrNotFound)
}

func TestEnrollmentRepoDuplicateSeat(t *testing.T) {
	db := newTestDB(t)
	repo := NewEnrollmentRepo(db)
	ctx := context.Background()

	first := &models.Enrollment{
		ID: "e1", TournamentID: "t1", UserID: "u1", InGameName: "player",
	}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &models.Enrollment{
		ID: "e2", TournamentID: "t1", UserID: "u1", InGameName: "player-again",
	})
	require.ErrorIs(t, err, ErrDuplicate)

	// Same user in a different tournament is fine.
	require.NoError(t, repo.Create(ctx, &models.Enrollment{
		ID: "e3", TournamentID: "t2", UserID: "u1", InGameName: "player",
	}))

	exists, err := repo.Exists(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.Exists(ctx, "u1", "t3")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTransactionRepoExistsForEnrollment(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Transaction{
		ID: "tx1", UserID: "u1", Type: models.TransactionTypeTournamentEntry,
		Amount: -50, Currency: "USD", RelatedID: "e1",
	}))
	require.NoError(t, repo.Create(ctx, &models.Transaction{
		ID: "tx2", UserID: "u1", Type: models.TransactionTypeWalletCredit,
		Amount: 100, Currency: "USD", RelatedID: "e2",
	}))

	ok, err := repo.ExistsForEnrollment(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, ok)

	// A credit row referencing the id does not count as the entry fee.
	ok, err = repo.ExistsForEnrollment(ctx, "e2")
	require.NoError(t, err)
	assert.False(t, ok)
}
