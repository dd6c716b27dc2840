package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"arena-clash/models"
	"arena-clash/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	Users        *repository.UserRepo
	Transactions *repository.TransactionRepo
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		Users:        repository.NewUserRepo(db),
		Transactions: repository.NewTransactionRepo(db),
	}
}

// Register creates a platform account. Emails are unique case-insensitively;
// new wallets start empty.
func (s *UserService) Register(c *fiber.Ctx) error {
	type Req struct {
		Email       string `json:"email" validate:"required,email"`
		DisplayName string `json:"display_name" validate:"required,min=2,max=64"`
		Region      string `json:"region" validate:"required"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "validation failed", "details": err.Error()})
	}
	if !models.IsValidRegion(req.Region) {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("region must be one of %v", models.Regions())})
	}

	user := &models.User{
		UID:         uuid.NewString(),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Region:      req.Region,
	}
	if err := s.Users.Create(c.UserContext(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.Status(409).JSON(fiber.Map{"error": ErrEmailTaken.Error()})
		}
		log.Printf("[USER] register failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "registration failed"})
	}
	return c.Status(201).JSON(user)
}

// GetMe returns the calling user's profile, wallet included.
func (s *UserService) GetMe(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	user, err := s.Users.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(user)
}

// UpdateRegion moves the user to another region. Existing enrollments stand;
// only future enrollments are constrained by the new region.
func (s *UserService) UpdateRegion(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	type Req struct {
		Region string `json:"region"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if !models.IsValidRegion(req.Region) {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("region must be one of %v", models.Regions())})
	}
	user, err := s.Users.Update(c.UserContext(), userID, map[string]interface{}{"region": req.Region})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	return c.JSON(user)
}

// GetWallet returns just the two wallet components.
func (s *UserService) GetWallet(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	user, err := s.Users.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(user.Wallet())
}

// GetMyTransactions returns the calling user's ledger, newest first.
func (s *UserService) GetMyTransactions(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	transactions, err := s.Transactions.ListByUser(c.UserContext(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch transactions"})
	}
	return c.JSON(transactions)
}

// AdminCreditWallet tops up a user's wallet (admin only) and appends the
// matching ledger row. Credit first, ledger second: a missing ledger row is
// recoverable, a phantom one is not.
func (s *UserService) AdminCreditWallet(c *fiber.Ctx) error {
	uid := c.Params("uid")
	type Req struct {
		Credits     float64 `json:"credits"`
		Winnings    float64 `json:"winnings"`
		Currency    string  `json:"currency"`
		Description string  `json:"description"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Credits < 0 || req.Winnings < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "amounts must be non-negative"})
	}
	if req.Credits == 0 && req.Winnings == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "nothing to credit"})
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	user, err := s.Users.CreditWallet(c.UserContext(), uid, req.Credits, req.Winnings)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		log.Printf("[USER] wallet credit failed for %s: %v", uid, err)
		return c.Status(500).JSON(fiber.Map{"error": "wallet credit failed"})
	}

	entry := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      uid,
		Type:        models.TransactionTypeWalletCredit,
		Amount:      req.Credits + req.Winnings,
		Currency:    req.Currency,
		Description: req.Description,
	}
	if err := s.Transactions.Create(c.UserContext(), entry); err != nil {
		log.Printf("[USER] ledger write failed for wallet credit to %s: %v", uid, err)
	}
	return c.JSON(fiber.Map{"user": user, "ledger_entry": entry})
}
