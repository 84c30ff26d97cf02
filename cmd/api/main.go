package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/config"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/database"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/handler"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/middleware"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/repository"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/router"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/service"
	cloud "github.com/Prym-aero/PRYM-IMS-sub001/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelConnect()

	db, err := database.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.DisconnectMongo(disconnectCtx, db); err != nil {
			logger.Warn().Err(err).Msg("failed to disconnect mongodb")
		}
	}()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, scan fanout runs single-node")
			redisClient = nil
		}
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, scan fanout runs without nats")
			natsConn = nil
		}
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	itemRepo := repository.NewItemRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	dispatchRepo := repository.NewDispatchRepository(db)
	userRepo := repository.NewUserRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	documentService := service.NewDocumentService(uploader, cfg.UploadMaxMB, cfg.UploadTimeout, logger)
	itemService := service.NewItemService(itemRepo, documentService, activityService, validate, logger)
	dispatchService := service.NewDispatchService(dispatchRepo, itemRepo, documentService, activityService, validate, logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, validate, logger)
	relayService := service.NewRelayService(itemRepo, activityService, redisClient, cfg.RelayChannel, cfg.ScanCacheTTL, natsConn, logger)

	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()
	relayService.Start(relayCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:     handler.NewAuthHandler(authService, logger),
		ItemHandler:     handler.NewItemHandler(itemService, logger),
		ActivityHandler: handler.NewActivityHandler(activityService, logger),
		DispatchHandler: handler.NewDispatchHandler(dispatchService, logger),
		DocumentHandler: handler.NewDocumentHandler(documentService, logger),
		RelayHandler:    handler.NewRelayHandler(relayService, logger),
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
