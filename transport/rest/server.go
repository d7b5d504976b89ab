package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	CreateGame(ctx context.Context, size int, difficulty entity.Difficulty, humanMark entity.Mark) (*usecase.Turn, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	SetDifficulty(ctx context.Context, id string, difficulty entity.Difficulty) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, row, col int) (*usecase.Turn, error)
	ResetGame(ctx context.Context, id string, size int) (*usecase.Turn, error)
	DeleteGame(ctx context.Context, id string) error
}

// NewRouter - registers the game API next to ping and metrics.
func NewRouter(logger *slog.Logger, games gameManager, defaults config.Game) *mux.Router {
	h := &handlers{
		logger:   logger.With("component", "rest"),
		games:    games,
		defaults: defaults,
	}

	router := mux.NewRouter()
	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/games", h.createGame).Methods(http.MethodPost)
	router.HandleFunc("/games/{id}", h.getGame).Methods(http.MethodGet)
	router.HandleFunc("/games/{id}", h.deleteGame).Methods(http.MethodDelete)
	router.HandleFunc("/games/{id}/difficulty", h.setDifficulty).Methods(http.MethodPut)
	router.HandleFunc("/games/{id}/turns", h.makeTurn).Methods(http.MethodPost)
	router.HandleFunc("/games/{id}/reset", h.resetGame).Methods(http.MethodPost)

	return router
}

// Start - serves handler on port until ctx is cancelled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
