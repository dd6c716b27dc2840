package handlers

import (
	"arena-clash/middleware"
	"arena-clash/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, dashboardService *services.DashboardService, db *gorm.DB) {
	// Registration happens before a user context exists.
	app.Post("/users/register", userService.Register)

	secured := app.Group("/", middleware.UserContext())
	secured.Get("/users/me", userService.GetMe)
	secured.Patch("/users/me/region", userService.UpdateRegion)
	secured.Get("/users/me/wallet", userService.GetWallet)
	secured.Get("/users/me/transactions", userService.GetMyTransactions)

	admin := app.Group("/admin", middleware.UserContext(), middleware.AdminOnly(db))
	admin.Post("/users/:uid/wallet/credit", userService.AdminCreditWallet)
	admin.Get("/dashboard", dashboardService.GetDashboard)
}
