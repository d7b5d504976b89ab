package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
	"github.com/rocketscienceinc/tictactoe-engine/transport/websocket"
)

var (
	ErrAddrNotFound       = errors.New("redis address string is empty")
	errInvalidDefaultSize = errors.New("board size out of range")
	errInvalidMaxDepth    = errors.New("search depth must be -1, 0 or positive")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	if err := validateDefaults(conf.Game); err != nil {
		return fmt.Errorf("invalid game defaults: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Game.SessionTTL)
	gameService := service.NewGameService(gameRepo)
	botService := service.NewBotService(logger, search.New(nil))
	gameManager := usecase.NewGameManager(logger, gameService, botService, tictactoe.WithMaxDepth(conf.Game.MaxDepth))

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		router := rest.NewRouter(logger, gameManager, conf.Game)
		if httpErr := rest.Start(ctx, conf.HTTPPort, router); httpErr != nil {
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager, conf.Game)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// validateDefaults - fails fast on a config that could never create a game.
func validateDefaults(defaults config.Game) error {
	if defaults.DefaultSize < entity.MinBoardSize || defaults.DefaultSize > entity.MaxBoardSize {
		return fmt.Errorf("default size %d: %w", defaults.DefaultSize, errInvalidDefaultSize)
	}

	if _, err := entity.ParseDifficulty(defaults.DefaultDifficulty); err != nil {
		return err
	}

	if defaults.MaxDepth < search.Unlimited {
		return fmt.Errorf("max depth %d: %w", defaults.MaxDepth, errInvalidMaxDepth)
	}

	return nil
}
