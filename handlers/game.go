package handlers

import (
	"arena-clash/middleware"
	"arena-clash/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService, db *gorm.DB) {
	// Public browsing
	app.Get("/games", gameService.GetPublishedGames)
	app.Get("/games/:slug", gameService.GetGameBySlug)

	// Admin management
	admin := app.Group("/admin", middleware.UserContext(), middleware.AdminOnly(db))
	admin.Post("/games", gameService.CreateGame)
	admin.Get("/games", gameService.GetAllGames)
	admin.Put("/games/:id", gameService.UpdateGame)
}
