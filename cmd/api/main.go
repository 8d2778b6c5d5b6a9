package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/asap-api/internal/config"
	"github.com/noah-isme/asap-api/internal/database"
	"github.com/noah-isme/asap-api/internal/handler"
	"github.com/noah-isme/asap-api/internal/middleware"
	"github.com/noah-isme/asap-api/internal/repository"
	"github.com/noah-isme/asap-api/internal/router"
	"github.com/noah-isme/asap-api/internal/service"
	"github.com/noah-isme/asap-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	conns, err := database.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StorageDriver, err)
	}
	defer conns.Close()

	var store repository.KeyValueStore
	if conns.Redis != nil {
		store = repository.NewRedisKeyValueStore(conns.Redis, "asap")
	} else {
		store = repository.NewGormKeyValueStore(conns.DB)
	}

	publisher := service.NewNATSReportPublisher(nil, "", logger)
	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
		publisher = service.NewNATSReportPublisher(natsConn, cfg.NATSSubject, logger)
	}

	validate := ai.NewValidator()

	client, err := ai.NewClient(ai.ClientConfig{
		Provider:    cfg.AIProvider,
		APIKey:      cfg.AIAPIKey,
		Model:       cfg.AIModel,
		Temperature: cfg.AITemperature,
		Timeout:     cfg.AITimeout,
		Logger:      logger,
		Validator:   validate,
	})
	if err != nil {
		log.Fatalf("failed to create model client: %v", err)
	}

	reportRepo := repository.NewReportRepository(store)
	configRepo := repository.NewConfigRepository(store)
	remoteReports := repository.NewRemoteReportAPI("", logger)

	reportService := service.NewReportService(reportRepo, remoteReports, publisher, logger)
	configService := service.NewConfigService(configRepo, validate, logger)
	evaluationService := service.NewEvaluationService(client, ai.NewAssembler(nil), reportService, logger)
	encoder := service.NewUploadEncoder(cfg.UploadMaxSizeMB, logger)

	evaluationHandler := handler.NewEvaluationHandler(evaluationService, encoder, validate, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	configHandler := handler.NewConfigHandler(configService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    cfg.UploadMaxSizeMB * 1024 * 1024 * 4,
		ReadTimeout:  cfg.AITimeout + 30*time.Second,
		WriteTimeout: cfg.AITimeout + 30*time.Second,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		EvaluationHandler: evaluationHandler,
		ReportHandler:     reportHandler,
		ConfigHandler:     configHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		EvaluateLimiter:   middleware.RateLimit("evaluate", cfg.EvaluateRateLimit, cfg.EvaluateRateSpan),
		HealthProbes:      []handler.HealthProbe{{Name: "storage", Check: conns.Ping}},
	})

	logger.Info().
		Str("provider", client.Provider()).
		Str("model", client.Model()).
		Str("storage", cfg.StorageDriver).
		Str("address", cfg.HTTPAddress()).
		Msg("starting asap api")

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
