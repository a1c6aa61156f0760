package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yumyai/bgcclass/logger"
	"github.com/yumyai/bgcclass/pkg/config"
	"github.com/yumyai/bgcclass/pkg/db"
	"github.com/yumyai/bgcclass/pkg/handler"
	"github.com/yumyai/bgcclass/pkg/middle"
)

const VERSION = "0.1.0"

func main() {

	// Try load env before reading the config, so BGC_* from .env apply.
	dotenvErr := godotenv.Load()

	cfg, cfgPath, err := config.LoadDefault()
	if err != nil {
		panic(err)
	}

	// Establish logger
	if err := logger.InitLoggerWithFile(cfg.LogLevel(), logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		panic(err)
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	logger.Info("Start:", zap.String("Version", VERSION), zap.String("config", cfgPath))

	store, err := db.NewModelStore(cfg.Models.Dir, cfg.Models.ArtifactFiles)
	if err != nil {
		logger.Fatal("Model directory is incomplete", zap.String("dir", cfg.Models.Dir), zap.Error(err))
	}

	artifacts, err := db.Open(store, db.EmbeddingOptions{
		K:            cfg.Embedding.K,
		AllowUnknown: cfg.Embedding.AllowUnknown,
		CacheSize:    cfg.Embedding.CacheSize,
	})
	if err != nil {
		logger.Fatal("Loading artifacts failed", zap.Error(err))
	}
	if n := artifacts.Analysis.NumClasses(); n != len(cfg.Classes) {
		logger.Fatal("Class names do not match the classifiers",
			zap.Int("classifier_classes", n), zap.Strings("classes", cfg.Classes))
	}

	app := &handler.AppContext{
		Analysis:       artifacts.Analysis,
		Classes:        cfg.Classes,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Results:        handler.NewResultStore(cfg.Results.Max, cfg.Results.TTL),
	}

	mux := handler.NewRouter(app)

	// Apply middleware
	h := middle.Chain(mux,
		middle.RequestIDMiddleware(logger.L()),
		middle.LoggingMiddleware(logger.L()),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Error starting server:", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
