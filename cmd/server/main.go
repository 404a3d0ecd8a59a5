package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"scheduling-service/internal/app"
	"scheduling-service/internal/server"
)

func main() {
	ctx := context.Background()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", "scheduling-service")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL required")
	}

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := app.RunMigrations(dbURL, migrationsDir, logger); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	var links app.MeetingLinks
	if g := app.NewGoogleMeetLinksFromEnv(); g != nil {
		links = g
	}
	appInstance := app.New(app.NewPGStore(pool), links, logger)

	router := gin.Default()

	// OAuth2 callback (must be before auth middleware)
	router.GET("/oauth2callback", appInstance.GoogleOAuth2CallbackHandler)

	router.Use(app.AuthMiddleware(app.AuthConfigFromEnv()))

	api := router.Group("/api")
	{
		hosts := api.Group("/hosts")
		{
			hosts.POST("/:id/availability", appInstance.SetAvailabilityHandler)
			hosts.GET("/:id/availability", appInstance.ListAvailabilityHandler)
			hosts.POST("/:id/exceptions", appInstance.SetExceptionHandler)
			hosts.GET("/:id/exceptions", appInstance.ListExceptionsHandler)
		}

		eventTypes := api.Group("/event-types")
		{
			eventTypes.GET("/:id/slots", appInstance.GetSlotsHandler)
			eventTypes.GET("/:id/bookings", appInstance.ListBookingsHandler)
		}

		api.DELETE("/bookings/:id", appInstance.CancelBookingHandler)
		api.POST("/bookings/:id/reschedule", appInstance.RescheduleBookingHandler)

		api.GET("/calendar/auth", appInstance.GoogleAuthHandler)
	}

	server.Run(router)
}
