package services

import (
	"errors"
	"log"
	"path/filepath"
	"strings"

	"arena-clash/models"
	"arena-clash/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type GameService struct {
	DB *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db}
}

var titleCaser = cases.Title(language.English)

// CreateGame registers a new draft game (admin only). The slug is derived
// from the name; the logo goes to R2.
func (s *GameService) CreateGame(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	game := &models.Game{
		ID:          uuid.NewString(),
		Slug:        slug.Make(name),
		Name:        titleCaser.String(name),
		Description: c.FormValue("description"),
		Genre:       c.FormValue("genre"),
		Status:      models.GameStatusDraft,
	}

	if logoFile, err := c.FormFile("logo"); err == nil && logoFile.Size > 0 {
		ext := filepath.Ext(logoFile.Filename)
		if ext == "" {
			ext = ".png"
		}
		key := "games/logos/" + uuid.NewString() + ext
		url, err := utils.UploadFileToR2(logoFile, key)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload logo"})
		}
		game.LogoURL = url
	}

	if err := s.DB.Create(game).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(409).JSON(fiber.Map{"error": "a game with this name already exists"})
		}
		log.Printf("[GAME] create failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(game)
}

// GetPublishedGames is the public browse list.
func (s *GameService) GetPublishedGames(c *fiber.Ctx) error {
	var games []models.Game
	q := s.DB.Where("status = ?", models.GameStatusPublished)
	if genre := c.Query("genre"); genre != "" {
		q = q.Where("genre = ?", genre)
	}
	if err := q.Order("name ASC").Find(&games).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch games"})
	}
	return c.JSON(games)
}

// GetAllGames is the admin list, drafts included.
func (s *GameService) GetAllGames(c *fiber.Ctx) error {
	var games []models.Game
	if err := s.DB.Order("created_at DESC").Find(&games).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch games"})
	}
	return c.JSON(games)
}

// GetGameBySlug resolves a public game page.
func (s *GameService) GetGameBySlug(c *fiber.Ctx) error {
	var game models.Game
	err := s.DB.First(&game, "slug = ? AND status = ?", c.Params("slug"), models.GameStatusPublished).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(game)
}

func (s *GameService) UpdateGame(c *fiber.Ctx) error {
	id := c.Params("id")
	type Req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Genre       string `json:"genre"`
		Status      string `json:"status"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = titleCaser.String(strings.TrimSpace(req.Name))
		updates["slug"] = slug.Make(req.Name)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Genre != "" {
		updates["genre"] = req.Genre
	}
	if req.Status != "" {
		if req.Status != models.GameStatusDraft && req.Status != models.GameStatusPublished {
			return c.Status(400).JSON(fiber.Map{"error": "status must be draft or published"})
		}
		updates["status"] = req.Status
	}

	result := s.DB.Model(&models.Game{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "game not found"})
	}
	var game models.Game
	s.DB.First(&game, "id = ?", id)
	return c.JSON(game)
}
