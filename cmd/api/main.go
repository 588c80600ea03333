package main

import (
	"log"
	"time"

	"github.com/Hummylol/oneonone/config"
	"github.com/Hummylol/oneonone/internal/handler"
	oredis "github.com/Hummylol/oneonone/internal/redis"
	"github.com/Hummylol/oneonone/internal/repository"
	"github.com/Hummylol/oneonone/internal/server"
	"github.com/Hummylol/oneonone/internal/services"
	"github.com/Hummylol/oneonone/internal/ws"
	"github.com/Hummylol/oneonone/pkg/database"
	"github.com/Hummylol/oneonone/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// Redis backs the online-status shadow and auth throttling. The app
	// stays up without it; both consumers degrade gracefully.
	var (
		onlineStore *oredis.OnlineStore
		authLimiter *oredis.RateLimiter
	)
	redisClient := oredis.NewClient(cfg)
	if err := oredis.Ping(redisClient); err != nil {
		l.Warnf("Redis unreachable, presence hints and auth throttling disabled: %s", err)
	} else {
		onlineStore = oredis.NewOnlineStore(redisClient, 24*time.Hour)
		authLimiter = oredis.NewRateLimiter(redisClient, oredis.DefaultRateLimitConfig())
	}

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	var status ws.StatusRecorder
	if onlineStore != nil {
		status = onlineStore
	}
	hub := ws.NewHub(status)

	authService := services.NewAuthService(userRepo, cfg)
	chatService := services.NewChatService(messageRepo, hub)

	var onlineStatus services.OnlineStatusStore
	if onlineStore != nil {
		onlineStatus = onlineStore
	}
	userService := services.NewUserService(userRepo, messageRepo, onlineStatus)

	handlers := &server.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Message: handler.NewMessageHandler(chatService),
		WS:      ws.NewHandler(hub, chatService, authService),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, authService, db, authLimiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
