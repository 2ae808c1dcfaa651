package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/binhbb2204/manga-catalog/internal/server"
	"github.com/binhbb2204/manga-catalog/pkg/config"
	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/binhbb2204/manga-catalog/pkg/store"
	"github.com/binhbb2204/manga-catalog/pkg/utils"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed_to_load_config", "error", err.Error())
		os.Exit(1)
	}

	logger.Init(logger.LogLevel(cfg.LogLevel), cfg.LogFormat == "json", os.Stdout)
	log := logger.GetLogger().WithContext("component", "api_server")
	log.Info("starting_api_server", "version", "1.0.0", "store", cfg.StoreDriver)

	if cfg.UsingDefaultSecret() {
		log.Warn("using_default_jwt_secret", "message", "Set JWT_SECRET environment variable in production!")
	}
	utils.TokenTTL = cfg.TokenTTL
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.Open(cfg.StoreDriver, cfg.DataDir, cfg.DBPath)
	if err != nil {
		log.Error("failed_to_open_store", "error", err.Error(), "driver", cfg.StoreDriver)
		os.Exit(1)
	}
	defer st.Close()

	srv := server.New(cfg, st)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("api_server_listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed_to_start_api_server", "error", err.Error())
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop
	log.Info("shutdown_signal_received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("api_server_shutdown_failed", "error", err.Error())
	}
	log.Info("api_server_stopped")
}
