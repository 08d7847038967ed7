package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	botMark, err := entity.ParseMark(conf.Bot.Mark)
	if err != nil {
		return fmt.Errorf("invalid bot mark in config: %w", err)
	}

	moveCache, closeCache, err := newMoveCache(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeCache()

	sessionRepo := repository.NewSessionRepository()
	bot := service.NewBotService(logger, moveCache)
	controller := usecase.NewSessionController(logger, sessionRepo, bot, botMark)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err = rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, controller)); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// newMoveCache connects to Redis when enabled and falls back to an in-process cache otherwise.
func newMoveCache(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.MoveCache, func(), error) {
	if !conf.Redis.Enabled {
		log.Info("Redis disabled, caching moves in memory")
		return repository.NewMemoryMoveCache(), func() {}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeFn := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	log.Info("Caching moves in redis", "addr", conf.Redis.GetRedisAddr(), "ttl", conf.Redis.CacheTTL)

	return repository.NewMoveCacheRepository(redisStorage.Connection, conf.Redis.CacheTTL), closeFn, nil
}
