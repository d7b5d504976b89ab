package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type gameService interface {
	CreateGame(ctx context.Context, size int, difficulty entity.Difficulty, humanMark entity.Mark) (*entity.Game, error)
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
	UpdateGame(ctx context.Context, game *entity.Game) error
	DeleteGame(ctx context.Context, gameID string) error
}

type botService interface {
	FindMove(board *entity.Board, mark entity.Mark, conf search.Config) (search.Result, error)
}

// Turn is what a caller gets back from an operation that may have moved pieces.
type Turn struct {
	Game   *entity.Game      `json:"game"`
	Events []tictactoe.Event `json:"events"`
}

type GameManager struct {
	logger      *slog.Logger
	gameService gameService
	botService  botService
	opts        []tictactoe.Option

	locks [lockStripes]sync.Mutex
}

const lockStripes = 64

func NewGameManager(logger *slog.Logger, gameService gameService, botService botService, opts ...tictactoe.Option) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		gameService: gameService,
		botService:  botService,
		opts:        opts,
	}
}

// CreateGame - starts a session. When the human plays O the computer's
// opening move is already in the returned events.
func (that *GameManager) CreateGame(ctx context.Context, size int, difficulty entity.Difficulty, humanMark entity.Mark) (*Turn, error) {
	game, err := that.gameService.CreateGame(ctx, size, difficulty, humanMark)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	unlock := that.lock(game.ID)
	defer unlock()

	recorder := &tictactoe.Recorder{}
	if err = that.controller(game, recorder).Start(); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "size", size, "difficulty", difficulty, "human", humanMark)

	return &Turn{Game: game, Events: recorder.Events}, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) SetDifficulty(ctx context.Context, id string, difficulty entity.Difficulty) (*entity.Game, error) {
	unlock := that.lock(id)
	defer unlock()

	game, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = that.controller(game, nil).SetDifficulty(difficulty); err != nil {
		return nil, fmt.Errorf("failed to set difficulty: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	return game, nil
}

// MakeTurn - applies the human move and the computer's answer. A finished game
// stays stored with its final board until it is reset, deleted or expires.
func (that *GameManager) MakeTurn(ctx context.Context, id string, row, col int) (*Turn, error) {
	unlock := that.lock(id)
	defer unlock()

	game, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	recorder := &tictactoe.Recorder{}
	if err = that.controller(game, recorder).PlayerMove(row, col); err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	if game.IsFinished() {
		that.finish(game)
	}

	return &Turn{Game: game, Events: recorder.Events}, nil
}

// ResetGame - replaces the board of a session, finished or in progress. Size 0
// keeps the current board size.
func (that *GameManager) ResetGame(ctx context.Context, id string, size int) (*Turn, error) {
	unlock := that.lock(id)
	defer unlock()

	game, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if size == 0 {
		size = game.Board.Size
	}

	recorder := &tictactoe.Recorder{}
	if err = that.controller(game, recorder).Reset(size); err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	return &Turn{Game: game, Events: recorder.Events}, nil
}

// DeleteGame - drops a session, finished or not.
func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.gameService.DeleteGame(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

func (that *GameManager) controller(game *entity.Game, listener tictactoe.Listener) *tictactoe.GameController {
	return tictactoe.NewGameController(game, that.botService, listener, that.opts...)
}

func (that *GameManager) finish(game *entity.Game) {
	outcome := game.Outcome()
	metrics.GamesFinished.WithLabelValues(string(outcome.Status), string(outcome.Winner)).Inc()

	that.logger.Info("game finished", "gameID", game.ID, "outcome", outcome.Status, "winner", outcome.Winner)
}

// lock - serialises operations on one session. Sessions sharing a stripe
// also wait for each other.
func (that *GameManager) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))

	l := &that.locks[h.Sum32()%lockStripes]
	l.Lock()

	return l.Unlock
}
