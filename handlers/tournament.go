package handlers

import (
	"arena-clash/middleware"
	"arena-clash/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService, enrollmentService *services.EnrollmentService, db *gorm.DB) {
	// Public browsing (published tournaments only, region-filtered)
	app.Get("/tournaments", tournamentService.GetPublishedTournaments)
	app.Get("/tournaments/:id", tournamentService.GetTournamentByID)

	// Authenticated user routes
	secured := app.Group("/", middleware.UserContext())
	secured.Post("/tournaments/:id/enroll", enrollmentService.EnrollHandler)
	secured.Get("/users/me/enrollments", enrollmentService.GetMyEnrollments)

	// Admin management
	admin := app.Group("/admin", middleware.UserContext(), middleware.AdminOnly(db))
	admin.Post("/tournaments", tournamentService.CreateTournament)
	admin.Get("/tournaments", tournamentService.GetAllTournaments)
	admin.Put("/tournaments/:id", tournamentService.UpdateTournament)
	admin.Post("/tournaments/:id/publish", tournamentService.PublishTournament)
	admin.Get("/tournaments/:id/enrollments", enrollmentService.GetTournamentEnrollments)
}
