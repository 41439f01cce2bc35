package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketpulse/internal/pulse/config"
	delivery "marketpulse/internal/pulse/delivery/http"
	"marketpulse/internal/pulse/repository"
	"marketpulse/internal/pulse/service"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/postgres"
	"marketpulse/pkg/redis"
	"marketpulse/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the market pulse service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Market Pulse Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Cache store, driver-selected
	var cacheRepo repository.CacheRepository
	switch cfg.Cache.Driver {
	case "redis":
		redisCfg := redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}
		redisClient, err := redis.NewClient(redisCfg)
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		cacheRepo = repository.NewRedisCacheRepository(redisClient.Client)
	default:
		cacheRepo = repository.NewCacheRepository(db.DB)
	}

	// Initialize repositories
	taskRepo := repository.NewTaskRepository(db.DB)
	historyRepo := repository.NewDecisionHistoryRepository(db.DB)
	articleRepo := repository.NewArticleRepository(appLogger)
	providers := []repository.QuoteProvider{
		repository.NewYahooFinanceRepository(cfg, appLogger),
		repository.NewStooqRepository(cfg, appLogger),
	}

	// Initialize AI provider
	var engine repository.DecisionEngineRepository
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		engine, err = repository.NewGeminiAIRepository(cfg, appLogger, genAiClient, articleRepo)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini repository", logger.ErrorField(err))
		}
	default:
		appLogger.Warn("No AI provider configured, decisions use the synthesizer only")
	}

	// Telegram notifier, optional
	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Error("Failed to initialize Telegram notifier", logger.ErrorField(err))
			notifier = nil
		}
	}

	// Initialize services
	aggregator := service.NewFeedAggregator(cfg, appLogger)
	resolver := service.NewQuoteResolver(cfg, appLogger, providers)
	synthesizer := service.NewDecisionSynthesizer(cfg.Market.Symbols)
	taskSvc := service.NewTaskService(taskRepo, appLogger)
	pulseSvc := service.NewPulseService(cfg, appLogger, cacheRepo, aggregator, resolver, synthesizer, engine, historyRepo, taskSvc, notifier)

	// Start cache warmer
	if cfg.Scheduler.Enabled {
		schedulerSvc := service.NewSchedulerService(cfg, appLogger, pulseSvc)
		if err := schedulerSvc.Start(ctx); err != nil {
			appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
		}
		defer schedulerSvc.Stop()
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")
	pulseHandler := delivery.NewPulseHandler(pulseSvc, appLogger)
	pulseHandler.RegisterRoutes(apiV1)
	taskHandler := delivery.NewTaskHandler(taskSvc, appLogger)
	taskHandler.RegisterRoutes(apiV1)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "pulse-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing pulse-service CLI: %s\n", err)
		os.Exit(1)
	}
}
