package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/waylo/waylo-api/internal/config"
	"github.com/waylo/waylo-api/internal/database"
	"github.com/waylo/waylo-api/internal/events"
	"github.com/waylo/waylo-api/internal/handlers"
	"github.com/waylo/waylo-api/internal/middleware"
	"github.com/waylo/waylo-api/internal/repositories"
	"github.com/waylo/waylo-api/internal/router"
	"github.com/waylo/waylo-api/internal/services"
	"github.com/waylo/waylo-api/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting Waylo API server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Optional Redis response cache
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis unreachable, caching disabled", "error", err)
			cache = nil
		}
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	friendRepo := repositories.NewFriendRepository(db)
	albumRepo := repositories.NewAlbumRepository(db)
	widgetRepo := repositories.NewWidgetRepository(db)
	feedRepo := repositories.NewFeedRepository(db)
	chatRepo := repositories.NewChatRepository(db)

	// Event bus: album creation must succeed with registration, the AMQP
	// publisher is best effort.
	bus := events.NewBus()
	bus.SubscribeCritical(func(ev events.AccountCreated) error {
		_, err := albumRepo.CreateForUser(ev.UserID)
		return err
	})
	if cfg.AMQPURL != "" {
		publisher := events.NewAMQPPublisher(cfg.AMQPURL)
		bus.Subscribe(publisher.Listener())
	}

	// Services
	authService := services.NewAuthService(userRepo, tokenRepo, bus, cfg.BcryptCost)
	userService := services.NewUserService(userRepo)
	friendService := services.NewFriendService(friendRepo, userRepo)
	albumService := services.NewAlbumService(albumRepo, widgetRepo)
	feedService := services.NewFeedService(feedRepo, userRepo, cfg.MediaRoot, cfg.MediaURL)
	chatService := services.NewChatService(chatRepo, userRepo)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, cfg.RateLimitWindow)

	e := echo.New()
	e.HideBanner = true
	e.Static(cfg.MediaURL, cfg.MediaRoot)
	router.Register(e, router.Deps{
		Auth:        authService,
		Health:      handlers.NewHealthHandler(db),
		AuthHandler: handlers.NewAuthHandler(authService),
		Users:       handlers.NewUserHandler(userService),
		Friends:     handlers.NewFriendHandler(friendService),
		Albums:      handlers.NewAlbumHandler(albumService),
		Feeds:       handlers.NewFeedHandler(feedService),
		Chats:       handlers.NewChatHandler(chatService),
		RateLimiter: rateLimiter,
		Cache:       cache,
		CacheTTL:    cfg.CacheTTL,

		UploadMaxSize: cfg.UploadMaxSize,
	})

	go func() {
		if err := e.Start(":" + cfg.AppPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server stopped", err)
		}
	}()
	logger.Info("Server started", "port", cfg.AppPort, "env", cfg.AppEnv)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
