package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"truckbot/config"
	"truckbot/handlers"
	"truckbot/middleware"
	"truckbot/models"
	"truckbot/routes"
	"truckbot/services"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Player{},
		&models.Job{},
		&models.DrivingSession{},
		&models.Company{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	catalog := services.NewCatalogService()
	leaderboard := services.NewLeaderboardService(redisClient)
	playerService := services.NewPlayerService(db, catalog, leaderboard)
	companyService := services.NewCompanyService(db, catalog)
	jobService := services.NewJobService(db, catalog, playerService, companyService, nil)
	drivingService := services.NewDrivingService(db, catalog, playerService)
	gamblingService := services.NewGamblingService(playerService, nil)

	// Initialize WebSocket hub for the live map
	hub := services.NewHub(catalog)
	go hub.Run()

	// Initialize Discord session
	if cfg.DiscordToken == "" {
		log.Fatal("DISCORD_TOKEN is required")
	}
	discord, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal("Failed to create Discord session:", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuilds

	discordHandler := handlers.NewDiscordHandler(
		discord, cfg.DiscordAppID,
		catalog, playerService, jobService, drivingService,
		companyService, gamblingService, leaderboard, hub,
	)
	discord.AddHandler(discordHandler.HandleInteraction)

	if err := discord.Open(); err != nil {
		log.Fatal("Failed to open Discord connection:", err)
	}
	defer discord.Close()

	if err := discordHandler.RegisterCommands(cfg.DiscordGuild); err != nil {
		log.Fatal(err)
	}

	// Start the background sweeper
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sweeper := services.NewSweeper(drivingService, jobService, cfg.SweepInterval, cfg.IdleTimeout, cfg.JobRetention)
	sweeper.SetCloser(discordHandler)
	go sweeper.Run(ctx)

	// Initialize HTTP handlers
	adminHandler := handlers.NewAdminHandler(
		playerService, companyService, drivingService, jobService, leaderboard,
		cfg.AdminUser, cfg.AdminPwdHash, cfg.JWTSecret,
	)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.CORS())
	routes.SetupRoutes(router, adminHandler, hub, cfg.JWTSecret)

	address := cfg.BindAddress + ":" + cfg.Port
	log.Printf("Truckbot listening on %s", address)

	srv := startHTTP(router, address)

	<-ctx.Done()
	log.Println("Shutting down...")
	if srv != nil {
		_ = srv.Close()
	}
}
