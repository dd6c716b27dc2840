package services

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// EnrollHandler is the HTTP entry point for tournament signup. The user id
// comes from the gateway-provided context, never from the body.
func (s *EnrollmentService) EnrollHandler(c *fiber.Ctx) error {
	var in EnrollInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	in.TournamentID = c.Params("id")
	in.UserID, _ = c.Locals("user_id").(string)
	if in.UserID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user context"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": err.Error()})
	}

	result, err := s.Enroll(c.UserContext(), in)
	if err != nil {
		return enrollErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// enrollErrorResponse maps the enrollment error taxonomy onto HTTP statuses.
// Every failure is surfaced to the user as an actionable message.
func enrollErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrTournamentNotFound), errors.Is(err, ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInvalidInGameName), errors.Is(err, ErrGameMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrRegionMismatch), errors.Is(err, ErrRegistrationClosed), errors.Is(err, ErrTournamentFull):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrAlreadyEnrolled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInsufficientBalance):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrSpotUnavailable), errors.Is(err, ErrEnrollmentFailed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("[ENROLL] unexpected error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "enrollment failed"})
	}
}

// GetMyEnrollments lists the calling user's enrollments, newest first.
func (s *EnrollmentService) GetMyEnrollments(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user context"})
	}
	enrollments, err := s.Enrollments.ListByUser(c.UserContext(), userID)
	if err != nil {
		log.Printf("[ENROLL] failed to list enrollments for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch enrollments"})
	}
	return c.JSON(enrollments)
}

// GetTournamentEnrollments lists every seat in a tournament (admin view).
func (s *EnrollmentService) GetTournamentEnrollments(c *fiber.Ctx) error {
	enrollments, err := s.Enrollments.ListByTournament(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch enrollments"})
	}
	return c.JSON(enrollments)
}
