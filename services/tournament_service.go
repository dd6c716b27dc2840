package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"arena-clash/models"
	"arena-clash/repository"
	"arena-clash/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TournamentService struct {
	DB          *gorm.DB
	Repo        *repository.TournamentRepo
	Enrollments *repository.EnrollmentRepo
}

func NewTournamentService(db *gorm.DB) *TournamentService {
	return &TournamentService{
		DB:          db,
		Repo:        repository.NewTournamentRepo(db),
		Enrollments: repository.NewEnrollmentRepo(db),
	}
}

// CreateTournament creates a draft tournament from a multipart form
// (admin only). SpotsLeft always starts equal to TotalSpots.
func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	gameID := c.FormValue("game_id")
	name := c.FormValue("name")
	region := c.FormValue("region")
	startTimeStr := c.FormValue("start_time")
	regCloseStr := c.FormValue("registration_close_time")
	totalSpotsStr := c.FormValue("total_spots")
	entryFeeStr := c.FormValue("entry_fee")

	if gameID == "" || name == "" || startTimeStr == "" {
		return c.Status(400).JSON(fiber.Map{"error": "game_id, name, and start_time are required"})
	}
	if !models.IsValidRegion(region) {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("region must be one of %v", models.Regions())})
	}

	totalSpots := 0
	if totalSpotsStr != "" {
		if n, err := strconv.Atoi(totalSpotsStr); err == nil && n > 0 {
			totalSpots = n
		} else {
			return c.Status(400).JSON(fiber.Map{"error": "total_spots must be a positive integer"})
		}
	}
	if totalSpots == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "total_spots is required"})
	}

	entryFee := 0.0
	if entryFeeStr != "" {
		if f, err := strconv.ParseFloat(entryFeeStr, 64); err == nil && f >= 0 {
			entryFee = f
		} else {
			return c.Status(400).JSON(fiber.Map{"error": "entry_fee must be a non-negative number"})
		}
	}
	currency := c.FormValue("entry_fee_currency")
	if currency == "" {
		currency = "USD"
	}

	startTime, err := time.Parse(time.RFC3339, startTimeStr)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid start_time (use RFC3339)"})
	}
	regClose := startTime
	if regCloseStr != "" {
		regClose, err = time.Parse(time.RFC3339, regCloseStr)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid registration_close_time (use RFC3339)"})
		}
	}
	if regClose.After(startTime) {
		return c.Status(400).JSON(fiber.Map{"error": "registration_close_time must not be after start_time"})
	}

	// Game must exist before we hang a tournament off it.
	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "game_id not found"})
	}

	// Main photo is a small public asset, pushed to R2.
	var mainPhotoURL string
	if mainPhoto, err := c.FormFile("main_photo"); err == nil && mainPhoto.Size > 0 {
		ext := filepath.Ext(mainPhoto.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := "tournaments/main/" + uuid.NewString() + ext
		url, err := utils.UploadFileToR2(mainPhoto, key)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload main photo"})
		}
		mainPhotoURL = url
	}

	tournament := &models.Tournament{
		ID:                    uuid.NewString(),
		GameID:                gameID,
		Name:                  name,
		Region:                region,
		StartTime:             startTime,
		RegistrationCloseTime: regClose,
		TotalSpots:            totalSpots,
		SpotsLeft:             totalSpots,
		EntryFee:              entryFee,
		EntryFeeCurrency:      currency,
		PrizePool:             c.FormValue("prize_pool"),
		IsSpecial:             c.FormValue("is_special") == "true",
		MainPhotoURL:          mainPhotoURL,
		Status:                models.TournamentStatusDraft,
	}
	if err := s.Repo.Create(c.UserContext(), tournament); err != nil {
		log.Printf("[TOURNAMENT] create failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(tournament)
}

// GetPublishedTournaments is the public browse list. Region comes from the
// query string; cross-region tournaments are simply not shown.
func (s *TournamentService) GetPublishedTournaments(c *fiber.Ctx) error {
	region := c.Query("region")
	if region != "" && !models.IsValidRegion(region) {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("region must be one of %v", models.Regions())})
	}
	tournaments, err := s.Repo.List(c.UserContext(), repository.TournamentFilter{
		Region: region,
		GameID: c.Query("game_id"),
		Status: models.TournamentStatusPublished,
	})
	if err != nil {
		log.Printf("[TOURNAMENT] list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}
	return c.JSON(tournaments)
}

// GetAllTournaments is the admin view: every status, every region.
func (s *TournamentService) GetAllTournaments(c *fiber.Ctx) error {
	tournaments, err := s.Repo.List(c.UserContext(), repository.TournamentFilter{
		Region: c.Query("region"),
		GameID: c.Query("game_id"),
		Status: c.Query("status"),
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}
	return c.JSON(tournaments)
}

func (s *TournamentService) GetTournamentByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var tournament models.Tournament
	if err := s.DB.Preload("Game").First(&tournament, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		log.Printf("[TOURNAMENT] fetch %s failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	count, err := s.Enrollments.CountByTournament(c.UserContext(), id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	tournament.EnrolledCount = count
	return c.JSON(tournament)
}

// UpdateTournament applies admin edits. Changing total_spots shifts
// spots_left by the same delta so filled seats are preserved; spots_left can
// never leave [0, total_spots].
func (s *TournamentService) UpdateTournament(c *fiber.Ctx) error {
	id := c.Params("id")
	type Req struct {
		Name       string   `json:"name"`
		PrizePool  *string  `json:"prize_pool"`
		EntryFee   *float64 `json:"entry_fee"`
		TotalSpots *int     `json:"total_spots"`
		StartTime  string   `json:"start_time"`
		RegClose   string   `json:"registration_close_time"`
		IsSpecial  *bool    `json:"is_special"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	tournament, err := s.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.PrizePool != nil {
		updates["prize_pool"] = *req.PrizePool
	}
	if req.EntryFee != nil {
		if *req.EntryFee < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "entry_fee must be non-negative"})
		}
		updates["entry_fee"] = *req.EntryFee
	}
	if req.IsSpecial != nil {
		updates["is_special"] = *req.IsSpecial
	}
	if req.StartTime != "" {
		t, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid start_time (use RFC3339)"})
		}
		updates["start_time"] = t
	}
	if req.RegClose != "" {
		t, err := time.Parse(time.RFC3339, req.RegClose)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid registration_close_time (use RFC3339)"})
		}
		updates["registration_close_time"] = t
	}
	if req.TotalSpots != nil {
		filled := tournament.FilledSpots()
		if *req.TotalSpots < filled {
			return c.Status(400).JSON(fiber.Map{
				"error": fmt.Sprintf("total_spots cannot go below the %d seats already filled", filled),
			})
		}
		updates["total_spots"] = *req.TotalSpots
		updates["spots_left"] = *req.TotalSpots - filled
	}

	updated, err := s.Repo.Update(c.UserContext(), id, updates)
	if err != nil {
		log.Printf("[TOURNAMENT] update %s failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	return c.JSON(updated)
}

// PublishTournament flips a draft to published, making it enrollable.
func (s *TournamentService) PublishTournament(c *fiber.Ctx) error {
	id := c.Params("id")
	updated, err := s.Repo.Update(c.UserContext(), id, map[string]interface{}{
		"status": models.TournamentStatusPublished,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "publish failed"})
	}
	return c.JSON(updated)
}
