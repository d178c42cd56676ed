package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/Dosada05/pong-ledger/brackets"
	"github.com/Dosada05/pong-ledger/cache"
	"github.com/Dosada05/pong-ledger/config"
	"github.com/Dosada05/pong-ledger/db"
	"github.com/Dosada05/pong-ledger/handlers"
	"github.com/Dosada05/pong-ledger/logger"
	"github.com/Dosada05/pong-ledger/repositories"
	api "github.com/Dosada05/pong-ledger/routes"
	"github.com/Dosada05/pong-ledger/services"
	"github.com/Dosada05/pong-ledger/storage"
)

const (
	dbConnectTimeout = 5 * time.Second
	shutdownTimeout  = 15 * time.Second
)

// @title Pong Ledger API
// @version 1.0
// @description Match results and round-robin tournaments for the pong client.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	root := &cobra.Command{
		Use:          "pong-ledger",
		Short:        "Match recording and tournament server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate()
			},
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *slog.Logger, error) {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		return nil, nil, err
	}

	// Настройка логгера
	log := logger.New(cfg.Log)
	slog.SetDefault(log)
	log.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("db_driver", cfg.DBDriver))
	return cfg, log, nil
}

func migrate() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	gdb, err := db.Connect(cfg, dbConnectTimeout, log)
	if err != nil {
		log.Error("failed to connect to database", slog.Any("error", err))
		return err
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		log.Error("migration failed", slog.Any("error", err))
		return err
	}
	log.Info("migrations applied")
	return nil
}

func serve() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	gdb, err := db.Connect(cfg, dbConnectTimeout, log)
	if err != nil {
		log.Error("failed to connect to database", slog.Any("error", err))
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error("failed to close database connection", slog.Any("error", err))
		} else {
			log.Info("database connection closed")
		}
	}()
	if err := db.Migrate(gdb); err != nil {
		log.Error("failed to migrate database", slog.Any("error", err))
		return err
	}
	log.Info("database connection established")

	// Кэш статистики (опционально)
	var statsCache services.StatsCache
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis", slog.Any("error", err))
			return err
		}
		defer rdb.Close()
		statsCache = cache.NewStatsCache(rdb, cfg.StatsCacheTTL)
		log.Info("stats cache enabled", slog.Duration("ttl", cfg.StatsCacheTTL))
	}

	// Архив турниров в Cloudflare R2 (опционально)
	var archiver services.TournamentArchiver
	if cfg.R2.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, cfg.R2)
		if err != nil {
			log.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			return err
		}
		archiver = storage.NewTournamentArchiver(uploader)
		log.Info("tournament archive enabled", slog.String("bucket", cfg.R2.BucketName))
	}

	// Инициализация WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := brackets.NewHub(log)
	go wsHub.Run(hubCtx)

	// Инициализация репозиториев
	userRepo := repositories.NewUserRepository(gdb)
	gameRepo := repositories.NewGameRepository(gdb)
	matchRepo := repositories.NewMatchRepository(gdb)
	tournamentRepo := repositories.NewTournamentRepository(gdb)
	participantRepo := repositories.NewParticipantRepository(gdb)
	statsRepo := repositories.NewStatsRepository(gdb)

	// Инициализация сервисов
	userService := services.NewUserService(userRepo)
	identityResolver := services.NewIdentityResolver(cfg.JWTSecretKey, userRepo)
	gameService := services.NewGameService(gdb, gameRepo, userService, log)
	matchService := services.NewMatchService(gdb, gameRepo, matchRepo, userService, statsCache, log)
	statsService := services.NewStatsService(statsRepo, userService, statsCache, log)
	tournamentService := services.NewTournamentService(
		gdb,
		tournamentRepo,
		participantRepo,
		brackets.NewRoundRobinGenerator(),
		wsHub,
		archiver,
		log,
	)

	// Инициализация обработчиков HTTP
	userHandler := handlers.NewUserHandler(userService)
	matchHandler := handlers.NewMatchHandler(gameService, matchService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	statsHandler := handlers.NewStatsHandler(statsService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.CORSAllowedOrigins,
		identityResolver,
		userHandler,
		matchHandler,
		tournamentHandler,
		statsHandler,
		webSocketHandler,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("error", err))
			return err
		}
		log.Info("server stopped gracefully")
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				log.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		log.Info("server shutdown complete")
	}
	log.Info("application exited")
	return nil
}
