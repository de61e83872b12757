package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"inventorytracker/internal/cache"
	"inventorytracker/internal/configuration"
	"inventorytracker/internal/database"
	"inventorytracker/internal/logger"
	"inventorytracker/internal/server"
)

func main() {
	if err := runApp(); err != nil {
		os.Exit(1)
	}
}

func runApp() error {
	appContext := context.Background()
	logOutput := io.Writer(os.Stdout)
	appLogger := logger.NewLogger(logger.LevelInfo, logOutput)

	defer func() {
		if r := recover(); r != nil {
			appLogger.Errorf("APPLICATION CRASHED: %+v", r)
		}
	}()

	config, err := configuration.GetConfig("config.toml")
	if err != nil {
		appLogger.Error("Error getting configuration from config.toml:", err)
		return err
	}

	if config.LogToFile {
		logFile, err := os.OpenFile("inventorytracker_backend.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			appLogger.Error("Error opening log file:", err)
			return err
		}
		defer func() {
			if err := logFile.Close(); err != nil {
				appLogger.Error("Error closing log file:", err)
			}
		}()
		logOutput = io.MultiWriter(logOutput, logFile)
	}
	appLogger = logger.NewLogger(config.LogLevel, logOutput)

	appLogger.Info("Connecting to DB at", config.DatabaseURI)
	dbConn, err := database.ConnectDB(appContext, config.DatabaseURI)
	if err != nil {
		appLogger.Error("Error connecting to DB:", err)
		return err
	}
	defer func() {
		if err := dbConn.Disconnect(appContext); err != nil {
			appLogger.Error("Error disconnecting from DB:", err)
		}
	}()

	var listCache *cache.Cache
	if config.RedisAddress != "" {
		appLogger.Info("Using Redis product list cache at", config.RedisAddress)
		listCache = cache.NewCache(config.RedisAddress, time.Minute)
		defer func() {
			if err := listCache.Close(); err != nil {
				appLogger.Error("Error closing Redis client:", err)
			}
		}()
	}

	srv := server.Server{
		DB:        database.Database{Database: dbConn.Database(database.Name)},
		Cache:     listCache,
		Logger:    appLogger,
		StaticDir: config.StaticDir,
	}

	httpSrv := &http.Server{
		Handler:      srv.Router(),
		Addr:         config.ServerAddress,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	appLogger.Info("Serving on", httpSrv.Addr)
	return httpSrv.ListenAndServe()
}
