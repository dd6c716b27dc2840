package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"arena-clash/models"
	"arena-clash/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DashboardService computes the admin dashboard: pure read-side aggregation,
// nothing persisted.
type DashboardService struct {
	DB    *gorm.DB
	Repo  *repository.TournamentRepo
	Users *repository.UserRepo

	Now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{
		DB:    db,
		Repo:  repository.NewTournamentRepo(db),
		Users: repository.NewUserRepo(db),
		Now:   time.Now,
	}
}

type TournamentFill struct {
	TournamentID string    `json:"tournament_id"`
	Name         string    `json:"name"`
	StartTime    time.Time `json:"start_time"`
	FillRatio    float64   `json:"fill_ratio"` // filled / total, 0..1
}

type MonthlySignups struct {
	Month string `json:"month"` // "2026-01"
	Count int    `json:"count"`
}

type DashboardStats struct {
	Region string `json:"region"`

	UpcomingTournaments int `json:"upcoming_tournaments"`
	PastTournaments     int `json:"past_tournaments"`

	GrossRevenue    float64 `json:"gross_revenue"`
	EstimatedPayout float64 `json:"estimated_payout"`
	NetRevenue      float64 `json:"net_revenue"`

	TournamentsByGame map[string]int `json:"tournaments_by_game"`

	// The five soonest upcoming tournaments and how full they are.
	TopUpcomingFill []TournamentFill `json:"top_upcoming_fill"`

	// Platform-wide, not region-scoped.
	SignupsByMonth []MonthlySignups `json:"signups_by_month"`
}

var prizeToken = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParsePrizePool extracts an estimated payout from a free-text prize pool
// like "500 USD + 250 USD merch". Numeric tokens are summed; anything
// unparseable contributes 0.
func ParsePrizePool(s string) float64 {
	// "1,000" style separators would otherwise split into two tokens.
	s = strings.ReplaceAll(s, ",", "")
	total := 0.0
	for _, tok := range prizeToken.FindAllString(s, -1) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		total += v
	}
	return total
}

// BuildStats aggregates tournaments (region-scoped) and users
// (platform-wide) into chart-ready numbers.
func (s *DashboardService) BuildStats(ctx context.Context, region string) (*DashboardStats, error) {
	tournaments, err := s.Repo.List(ctx, repository.TournamentFilter{Region: region})
	if err != nil {
		return nil, fmt.Errorf("failed to load tournaments: %w", err)
	}
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	var games []models.Game
	if err := s.DB.WithContext(ctx).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	gameNames := make(map[string]string, len(games))
	for _, g := range games {
		gameNames[g.ID] = g.Name
	}

	now := s.Now()
	stats := &DashboardStats{
		Region:            region,
		TournamentsByGame: map[string]int{},
	}

	var upcoming []models.Tournament
	for _, t := range tournaments {
		// A zero start time means the record predates the scheduling fields;
		// it belongs to neither bucket.
		switch {
		case t.StartTime.IsZero():
		case t.StartTime.After(now):
			stats.UpcomingTournaments++
			upcoming = append(upcoming, t)
		default:
			stats.PastTournaments++
		}

		stats.GrossRevenue += float64(t.FilledSpots()) * t.EntryFee
		stats.EstimatedPayout += ParsePrizePool(t.PrizePool)

		name := gameNames[t.GameID]
		if name == "" {
			name = t.GameID
		}
		stats.TournamentsByGame[name]++
	}
	stats.NetRevenue = stats.GrossRevenue - stats.EstimatedPayout

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].StartTime.Before(upcoming[j].StartTime)
	})
	for i, t := range upcoming {
		if i == 5 {
			break
		}
		ratio := 0.0
		if t.TotalSpots > 0 {
			ratio = float64(t.FilledSpots()) / float64(t.TotalSpots)
		}
		stats.TopUpcomingFill = append(stats.TopUpcomingFill, TournamentFill{
			TournamentID: t.ID,
			Name:         t.Name,
			StartTime:    t.StartTime,
			FillRatio:    ratio,
		})
	}

	byMonth := map[string]int{}
	for _, u := range users {
		byMonth[u.CreatedAt.Format("2006-01")]++
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		stats.SignupsByMonth = append(stats.SignupsByMonth, MonthlySignups{Month: m, Count: byMonth[m]})
	}

	return stats, nil
}

// GetDashboard serves the admin dashboard for one region.
func (s *DashboardService) GetDashboard(c *fiber.Ctx) error {
	region := c.Query("region")
	if region != "" && !models.IsValidRegion(region) {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("region must be one of %v", models.Regions())})
	}
	stats, err := s.BuildStats(c.UserContext(), region)
	if err != nil {
		log.Printf("[DASHBOARD] aggregation failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to build dashboard"})
	}
	return c.JSON(stats)
}
