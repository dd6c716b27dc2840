package services

import (
	"context"
	"testing"
	"time"

	"arena-clash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrizePool(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"500 USD", 500},
		{"500 USD + 250 USD merch", 750},
		{"1,000 USD", 1000},
		{"2.5 BTC", 2.5},
		{"TBD", 0},
		{"", 0},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.InDelta(t, tc.want, ParsePrizePool(tc.in), 1e-9)
		})
	}
}

func TestBuildStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	require.NoError(t, db.Create(&models.Game{ID: "game-1", Slug: "valorant", Name: "Valorant"}).Error)
	require.NoError(t, db.Create(&models.Game{ID: "game-2", Slug: "cs2", Name: "Counter-Strike 2"}).Error)

	// Upcoming, 12 of 16 seats taken, 50 entry fee.
	seedTournament(t, db, "up-1", func(tr *models.Tournament) {
		tr.StartTime = now.Add(24 * time.Hour)
		tr.SpotsLeft = 4
		tr.PrizePool = "300 USD"
	})
	// Upcoming, empty, later start, different game.
	seedTournament(t, db, "up-2", func(tr *models.Tournament) {
		tr.GameID = "game-2"
		tr.StartTime = now.Add(48 * time.Hour)
		tr.PrizePool = "TBD"
	})
	// Past, sold out.
	seedTournament(t, db, "past-1", func(tr *models.Tournament) {
		tr.StartTime = now.Add(-24 * time.Hour)
		tr.SpotsLeft = 0
		tr.PrizePool = "200 USD"
	})
	// Zero start time sits in neither bucket but still counts revenue.
	seedTournament(t, db, "legacy", func(tr *models.Tournament) {
		tr.StartTime = time.Time{}
		tr.RegistrationCloseTime = time.Time{}
		tr.SpotsLeft = 14
	})
	// Different region, must be excluded entirely.
	seedTournament(t, db, "na-1", func(tr *models.Tournament) {
		tr.Region = "NA"
		tr.SpotsLeft = 0
		tr.PrizePool = "9999 USD"
	})

	u1 := seedUser(t, db, "u1", "EU", 0, 0)
	u2 := seedUser(t, db, "u2", "EU", 0, 0)
	u3 := seedUser(t, db, "u3", "NA", 0, 0)
	require.NoError(t, db.Model(u1).Update("created_at", time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)).Error)
	require.NoError(t, db.Model(u2).Update("created_at", time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)).Error)
	require.NoError(t, db.Model(u3).Update("created_at", time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)).Error)

	stats, err := svc.BuildStats(context.Background(), "EU")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.UpcomingTournaments)
	assert.Equal(t, 1, stats.PastTournaments)

	// (12 + 0 + 16 + 2) seats at 50 each, NA tournament excluded.
	assert.InDelta(t, 1500, stats.GrossRevenue, 1e-9)
	assert.InDelta(t, 500, stats.EstimatedPayout, 1e-9)
	assert.InDelta(t, 1000, stats.NetRevenue, 1e-9)

	assert.Equal(t, map[string]int{"Valorant": 3, "Counter-Strike 2": 1}, stats.TournamentsByGame)

	require.Len(t, stats.TopUpcomingFill, 2)
	assert.Equal(t, "up-1", stats.TopUpcomingFill[0].TournamentID)
	assert.InDelta(t, 0.75, stats.TopUpcomingFill[0].FillRatio, 1e-9)
	assert.Equal(t, "up-2", stats.TopUpcomingFill[1].TournamentID)
	assert.InDelta(t, 0, stats.TopUpcomingFill[1].FillRatio, 1e-9)

	// Signups are platform-wide and month-sorted.
	require.Len(t, stats.SignupsByMonth, 2)
	assert.Equal(t, MonthlySignups{Month: "2026-07", Count: 1}, stats.SignupsByMonth[0])
	assert.Equal(t, MonthlySignups{Month: "2026-08", Count: 2}, stats.SignupsByMonth[1])
}
