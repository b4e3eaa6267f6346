package main

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/jleignadier/nueva-generacion-sub000/internal/config"
	"github.com/jleignadier/nueva-generacion-sub000/internal/constants"
	"github.com/jleignadier/nueva-generacion-sub000/internal/database"
	"github.com/jleignadier/nueva-generacion-sub000/internal/handlers"
	"github.com/jleignadier/nueva-generacion-sub000/internal/middleware"
	"github.com/jleignadier/nueva-generacion-sub000/internal/repository"
	"github.com/jleignadier/nueva-generacion-sub000/internal/services"
	"github.com/jleignadier/nueva-generacion-sub000/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	isProduction := cfg.GinMode == "release"
	var logger *zap.Logger
	var err error
	if isProduction {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			logger.Fatal("Failed to create indexes", zap.Error(err))
		}
	}

	// Receipt storage; donations cannot be submitted without it
	var uploader storage.Uploader
	if cfg.CloudinaryURL != "" {
		uploader, err = storage.NewCloudinaryUploader(cfg.CloudinaryURL)
		if err != nil {
			logger.Fatal("Failed to configure receipt storage", zap.Error(err))
		}
	} else {
		logger.Warn("CLOUDINARY_URL not set; donation submissions will fail")
	}

	// Initialize Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logger.Fatal("Failed to create Redis store", zap.Error(err))
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	competitionRepo := repository.NewCompetitionRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, logger)
	eventService := services.NewEventService(eventRepo, userRepo, logger)
	donationService := services.NewDonationService(donationRepo, eventRepo, userRepo, orgRepo, logger)
	leaderboardService := services.NewLeaderboardService(pointsRepo)
	competitionService := services.NewCompetitionService(competitionRepo)
	orgService := services.NewOrganizationService(orgRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService, cfg.QRTokenSecret)
	donationHandler := handlers.NewDonationHandler(donationService, uploader, logger)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, competitionService)
	competitionHandler := handlers.NewCompetitionHandler(competitionService)
	orgHandler := handlers.NewOrganizationHandler(orgService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Nueva Generacion API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Event routes
		events := api.Group("/events")
		events.Use(middleware.RequireAuth())
		{
			events.GET("", eventHandler.ListEvents)
			events.POST("", middleware.RequireAdmin(), eventHandler.CreateEvent)
			events.GET("/:id", middleware.RequireEvent(), eventHandler.GetEvent)
			events.PATCH("/:id", middleware.RequireAdmin(), middleware.RequireEvent(), eventHandler.UpdateEvent)
			events.DELETE("/:id", middleware.RequireAdmin(), middleware.RequireEvent(), eventHandler.DeleteEvent)
			events.POST("/:id/register", middleware.RequireEvent(), eventHandler.Register)
			events.POST("/:id/checkin", middleware.RequireEvent(), eventHandler.CheckIn)
			events.GET("/:id/status", middleware.RequireEvent(), eventHandler.GetStatus)
			events.GET("/:id/attendees", middleware.RequireAdmin(), middleware.RequireEvent(), eventHandler.ListAttendees)
			events.GET("/:id/checkin-token", middleware.RequireAdmin(), middleware.RequireEvent(), eventHandler.GetCheckInToken)
			events.GET("/:id/calendar", middleware.RequireEvent(), eventHandler.DownloadCalendar)
		}

		// Donation routes
		donations := api.Group("/donations")
		donations.Use(middleware.RequireAuth())
		{
			donations.POST("", donationHandler.Submit)
			donations.GET("", donationHandler.ListDonations)
			donations.GET("/:id", donationHandler.GetDonation)
			donations.POST("/:id/approve", middleware.RequireAdmin(), donationHandler.Approve)
			donations.POST("/:id/reject", middleware.RequireAdmin(), donationHandler.Reject)
		}

		// Leaderboard routes
		leaderboard := api.Group("/leaderboard")
		leaderboard.Use(middleware.RequireAuth())
		{
			leaderboard.GET("/users", leaderboardHandler.Users)
			leaderboard.GET("/organizations", leaderboardHandler.Organizations)
		}

		// Organization routes
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.GET("/:id", orgHandler.GetOrganization)
			orgs.PATCH("/:id", middleware.RequireAdmin(), orgHandler.UpdateOrganization)
			orgs.GET("/:id/members", middleware.RequireAdmin(), orgHandler.ListMembers)
		}

		// Competition routes
		competitions := api.Group("/competitions")
		competitions.Use(middleware.RequireAuth())
		{
			competitions.GET("/active", competitionHandler.GetActive)
			competitions.GET("", middleware.RequireAdmin(), competitionHandler.List)
			competitions.POST("", middleware.RequireAdmin(), competitionHandler.Create)
			competitions.PATCH("/:id", middleware.RequireAdmin(), competitionHandler.Update)
			competitions.POST("/:id/activate", middleware.RequireAdmin(), competitionHandler.Activate)
			competitions.DELETE("/:id", middleware.RequireAdmin(), competitionHandler.Delete)
		}

		// Admin user management
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			users.PATCH("/:id/role", authHandler.UpdateUserRole)
		}
	}

	// Start server
	logger.Info("Server starting", zap.String("addr", ":8080"))
	if err := r.Run(":8080"); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
