// Package main initializes and starts the vocabulary server, setting
// up configuration, logging, the database connection, repositories,
// services, handlers, and the optional reminder scheduler.
package main

import (
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mshiraki/tangocho/internal/config"
	"github.com/mshiraki/tangocho/internal/db"
	"github.com/mshiraki/tangocho/internal/llm"
	"github.com/mshiraki/tangocho/internal/logger"
	"github.com/mshiraki/tangocho/internal/notifier"
	"github.com/mshiraki/tangocho/internal/repository"
	"github.com/mshiraki/tangocho/internal/scheduler"
	"github.com/mshiraki/tangocho/internal/server/handler/http"
	"github.com/mshiraki/tangocho/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// orDefault returns v if it is non-empty, otherwise def. It mirrors
// cmp.Or for strings, which needs Go 1.22 while this module builds
// with Go 1.21.
func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func main() {
	// Load a local .env file if present, then parse configuration.
	_ = godotenv.Load()
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", orDefault(version, "N/A"))
	fmt.Printf("Build date: %s\n", orDefault(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Periodically drop expired login sessions.
	db.StartSessionCleaner(context.Background(), postgresDB, time.Hour, zapLogger)

	// Initialize repositories.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	vocabRepo := repository.NewPostgresVocabularyRepository(postgresDB)
	subRepo := repository.NewPostgresSubscriptionRepository(postgresDB)

	// Pick the word-analysis provider.
	var provider llm.Provider
	if options.UseMockLLM {
		provider = llm.NewMock()
	} else {
		provider, err = llm.NewGemini(options.GeminiAPIKey, options.GeminiModel)
		if err != nil {
			zapLogger.Fatal("cannot init word-analysis provider", zap.Error(err))
		}
	}
	zapLogger.Info("word-analysis provider ready", zap.String("provider", provider.Name()))

	// Initialize business-logic services.
	clock := service.RealClock{}
	authService := service.NewAuthService(authRepo, clock, time.Duration(options.SessionTTLHours)*time.Hour)
	vocabService := service.NewVocabularyService(vocabRepo, clock)
	searchService := service.NewSearchService(provider)
	notificationService := service.NewNotificationService(
		subRepo,
		vocabService,
		notifier.NewRelay(options.PushRelayURL),
		clock,
		zapLogger,
	)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService}
	vocabHandler := &http.VocabularyHandler{VocabularyService: vocabService}
	searchHandler := &http.SearchHandler{SearchService: searchService}
	notificationHandler := &http.NotificationHandler{NotificationService: notificationService}
	cronHandler := &http.CronHandler{ReminderSender: notificationService, Secret: options.CronSecret}

	// Build the router with middleware and routes.
	router := http.NewRouter(
		authHandler,
		vocabHandler,
		searchHandler,
		notificationHandler,
		cronHandler,
		authService,
		zapLogger,
	)

	// Optionally run the in-process reminder scheduler. Deployments
	// with an external cron service keep this off.
	if options.SchedulerEnabled {
		reminders := scheduler.New(
			notificationService,
			clock,
			options.NotificationStartHour,
			options.NotificationEndHour,
			zapLogger,
		)
		reminders.Start()
		defer reminders.Stop()
	}

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
