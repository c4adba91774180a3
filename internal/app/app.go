package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"lovelace/backend/internal/api"
	"lovelace/backend/internal/auth"
	"lovelace/backend/internal/config"
	"lovelace/backend/internal/database"
	"lovelace/backend/internal/llm"
	"lovelace/backend/internal/repository"
	"lovelace/backend/internal/service"
)

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	repo, cleanup, err := buildRepository(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "backend", cfg.StorageBackend, "error", err)
		return 1
	}
	defer cleanup()
	slog.Info("Storage initialized", "backend", cfg.StorageBackend)

	verifier, err := buildVerifier(cfg)
	if err != nil {
		slog.Error("Failed to initialize auth", "mode", cfg.AuthMode, "error", err)
		return 1
	}
	authenticator := auth.NewAuthenticator(verifier, cfg.AllowedUsers(), cfg.AuthTestBypass)

	provider := llm.NewOpenAIProvider(cfg.LLMURL, cfg.LLMModel)
	chatService := service.NewChatService(repo, provider)

	chatHandler := api.NewChatHandler(chatService)
	authMiddleware := api.NewAuthMiddleware(authenticator, cfg.AuthTokenHeader)
	router := api.NewRouter(chatHandler, authMiddleware)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func buildRepository(cfg *config.Config) (repository.Repository, func(), error) {
	noop := func() {}
	switch cfg.StorageBackend {
	case "file":
		repo, err := repository.NewFileRepository(cfg.DataDir)
		return repo, noop, err
	case "sqlite":
		db, err := database.InitDB(cfg.DatabasePath)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}
		return repository.NewSQLiteRepository(db), cleanup, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cleanup := func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close redis connection", "error", err)
			}
		}
		return repository.NewRedisRepository(rdb), cleanup, nil
	}
	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

func buildVerifier(cfg *config.Config) (auth.Verifier, error) {
	switch cfg.AuthMode {
	case "remote":
		if cfg.AuthURL == "" {
			return nil, fmt.Errorf("AUTH_URL is required for remote auth")
		}
		return auth.NewRemoteVerifier(cfg.AuthURL), nil
	case "jwt":
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required for jwt auth")
		}
		return auth.NewJWTVerifier(cfg.JWTSecret), nil
	}
	return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
