package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Chaudhary-CS/Nexus/internal/api"
	"github.com/Chaudhary-CS/Nexus/internal/auth"
	"github.com/Chaudhary-CS/Nexus/internal/config"
	"github.com/Chaudhary-CS/Nexus/internal/core"
	"github.com/Chaudhary-CS/Nexus/internal/logging"
	"github.com/Chaudhary-CS/Nexus/internal/store"
	"github.com/Chaudhary-CS/Nexus/internal/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to an optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "nexus: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dbStore, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbStore.Close()

	// The project namer is optional; without an API key projects keep
	// their truncated-idea names.
	var namer core.ProjectNamer
	if cfg.DemoMode() {
		logger.Info("GEMINI_API_KEY not set, running in demo mode")
	} else {
		llmService, err := core.NewLLMService(context.Background(), cfg.GeminiAPIKey.Value(), cfg.GeminiModel)
		if err != nil {
			return err
		}
		defer func() {
			if err := llmService.Close(); err != nil {
				logger.Warn("error closing GenAI client", zap.Error(err))
			}
		}()
		namer = llmService
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret.Value(), cfg.TokenTTL)
	userService := core.NewUserService(dbStore, tokens)
	projectService := core.NewProjectService(dbStore, utils.NewKeyedMutex(), cfg.ProjectLimit, namer)

	apiHandler := api.NewAPIHandler(userService, projectService, api.NewMetrics())
	router := api.NewRouter(apiHandler, logger)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", serverAddr),
			zap.String("database", cfg.DatabaseURL),
			zap.Int("project_limit", cfg.ProjectLimit))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("could not listen on %s: %w", serverAddr, err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	// Let in-flight project naming finish before the database closes.
	projectService.Wait()
	logger.Info("server exited gracefully")
	return nil
}
