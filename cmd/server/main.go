package main

import (
	"context"
	"net/http"

	_ "hackhub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"hackhub/internal/auth"
	"hackhub/internal/cache"
	"hackhub/internal/config"
	"hackhub/internal/db"
	"hackhub/internal/handler"
	"hackhub/internal/mail"
	"hackhub/internal/repository"
	"hackhub/internal/router"
	"hackhub/internal/service"
	"hackhub/internal/storage"
	"hackhub/internal/ws"
)

// @title HackHub API
// @version 1.0
// @description Hackathon management API with events, teams, real-time chat and JWT authentication.
// @host localhost:4000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true

	database, err := db.NewMongo(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := db.EnsureIndexes(context.Background(), database); err != nil {
		log.Fatal().Err(err).Msg("index init")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	eventRepo := repository.NewEventRepository(database)
	teamRepo := repository.NewTeamRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)
	messageRepo := repository.NewMessageRepository(database)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	mailer := mail.NewSMTPMailer(cfg)

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init")
	}

	hub := ws.NewHub()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, mailer)
	userService := service.NewUserService(userRepo, eventRepo, teamRepo)
	eventService := service.NewEventService(eventRepo, userRepo, teamRepo, notificationRepo, cacheClient, hub)
	teamService := service.NewTeamService(teamRepo, userRepo, eventRepo, notificationRepo, mailer, hub)
	messageService := service.NewMessageService(messageRepo, teamRepo, hub)
	notificationService := service.NewNotificationService(notificationRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, store)
	eventHandler := handler.NewEventHandler(eventService)
	teamHandler := handler.NewTeamHandler(teamService)
	messageHandler := handler.NewMessageHandler(messageService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	contactHandler := handler.NewContactHandler(mailer)
	wsHandler := handler.NewWSHandler(hub)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		userRepo,
		authHandler,
		userHandler,
		eventHandler,
		teamHandler,
		messageHandler,
		notificationHandler,
		contactHandler,
		wsHandler,
	)

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
