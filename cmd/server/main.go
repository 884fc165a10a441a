package main

import (
	"log"
	"net/http"
	"os"

	"github.com/dgraph-io/badger/v3"
	"github.com/dkarpov/currency-exchange-service/internal/application/service"
	"github.com/dkarpov/currency-exchange-service/internal/config"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/api"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/db"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/handler"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/logger"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/metrics"
	"github.com/dkarpov/currency-exchange-service/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(appLogger)

	// Setup BadgerDB
	if err := os.MkdirAll(cfg.DBPath, 0755); err != nil {
		appLogger.Fatal("Failed to create database directory", map[string]interface{}{
			"path":  cfg.DBPath,
			"error": err.Error(),
		})
	}

	badgerOpts := badger.DefaultOptions(cfg.DBPath)
	badgerOpts.Logger = nil // Disable Badger's default logger

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		appLogger.Fatal("Failed to open database", map[string]interface{}{
			"path":  cfg.DBPath,
			"error": err.Error(),
		})
	}

	defer func() {
		if err := badgerDB.Close(); err != nil {
			appLogger.Error("Error closing BadgerDB", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	m := metrics.New(nil)

	// Initialize repositories
	rateRepo := db.NewBadgerRateRepository(badgerDB)
	updateLogRepo := db.NewBadgerUpdateLogRepository(badgerDB)

	// Initialize the external rate provider client
	providerClient := api.NewExchangeRateAPIClient(
		cfg.RatesAPIBaseURL,
		&http.Client{Timeout: cfg.FetchTimeout},
		cfg.FetchRetries,
		appLogger,
	)

	// Initialize services
	refreshService := service.NewRefreshService(rateRepo, updateLogRepo, providerClient, appLogger, m)
	conversionService := service.NewConversionService(rateRepo, cfg.ReferenceCurrency, appLogger, m)

	// Initialize handlers
	ratesHandler := handler.NewRatesHandler(refreshService, conversionService, cfg.ReferenceCurrency, appLogger)
	conversionHandler := handler.NewConversionHandler(conversionService, appLogger)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(appLogger, m))
	ratesHandler.RegisterRoutes(router)
	conversionHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Start server
	appLogger.Info("Server listening", map[string]interface{}{
		"addr":      cfg.ServerAddr,
		"reference": cfg.ReferenceCurrency,
	})
	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		appLogger.Fatal("Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
