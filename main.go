package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"arena-clash/handlers"
	"arena-clash/middleware"
	"arena-clash/models"
	"arena-clash/services"
	"arena-clash/utils"
	"arena-clash/workers"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // artwork uploads only
	})

	// Prometheus scrapes bypass the gateway, so /metrics is registered ahead
	// of the auth middleware.
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Only gateway requests are allowed past this point.
	app.Use(middleware.GatewayAuth())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-User-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	// TranslateError maps driver unique-violation errors onto
	// gorm.ErrDuplicatedKey, which the repositories rely on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Game{},
		&models.Tournament{},
		&models.User{},
		&models.Enrollment{},
		&models.Transaction{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	gameService := services.NewGameService(db)
	tournamentService := services.NewTournamentService(db)
	enrollmentService := services.NewEnrollmentService(db)
	userService := services.NewUserService(db)
	dashboardService := services.NewDashboardService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tournamentService.StartArchiveScheduler()
	go workers.Poll(ctx, workers.NewLedgerReconciler(db), 5*time.Minute)

	handlers.SetupGameRoutes(app, gameService, db)
	handlers.SetupTournamentRoutes(app, tournamentService, enrollmentService, db)
	handlers.SetupUserRoutes(app, userService, dashboardService, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5100"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Arena Clash backend running on http://localhost:%s", port)
	log.Println("Tournament archiver running (every 1m)")
	log.Println("Ledger reconciler running (every 5m)")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
