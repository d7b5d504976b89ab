package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
)

// Listener receives the events a session raises for the presentation layer.
type Listener interface {
	MoveApplied(move entity.Move, mark entity.Mark)
	GameEnded(outcome entity.Outcome)
}

type moveFinder interface {
	FindMove(board *entity.Board, mark entity.Mark, conf search.Config) (search.Result, error)
}

// GameController drives one game: human moves in, computer moves out.
// It must not be shared between goroutines.
type GameController struct {
	game     *entity.Game
	bot      moveFinder
	listener Listener
	maxDepth int
}

type Option func(*GameController)

// WithMaxDepth - overrides the per-size search depth cap, search.Unlimited removes it.
func WithMaxDepth(depth int) Option {
	return func(that *GameController) {
		that.maxDepth = depth
	}
}

func NewGameController(game *entity.Game, bot moveFinder, listener Listener, opts ...Option) *GameController {
	if listener == nil {
		listener = &Recorder{}
	}

	controller := &GameController{
		game:     game,
		bot:      bot,
		listener: listener,
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

func (that *GameController) Game() *entity.Game {
	return that.game
}

// Start - lets the computer open when it plays X. No-op otherwise.
func (that *GameController) Start() error {
	if that.game.IsHumanTurn() || that.game.IsFinished() {
		return nil
	}

	if _, err := that.ComputerMove(); err != nil {
		return fmt.Errorf("computer failed to open: %w", err)
	}

	return nil
}

func (that *GameController) SetDifficulty(difficulty entity.Difficulty) error {
	d, err := entity.ParseDifficulty(string(difficulty))
	if err != nil {
		return err
	}

	that.game.Difficulty = d

	return nil
}

// PlayerMove - applies the human's move and, if the game goes on, answers it.
func (that *GameController) PlayerMove(row, col int) error {
	if !that.game.IsFinished() && !that.game.IsHumanTurn() {
		return apperror.ErrNotYourTurn
	}

	ended, err := that.apply(that.game.HumanMark, entity.Move{Row: row, Col: col})
	if err != nil || ended {
		return err
	}

	if _, err = that.ComputerMove(); err != nil {
		return fmt.Errorf("computer failed to answer: %w", err)
	}

	return nil
}

// ComputerMove - searches for and applies the computer's move.
func (that *GameController) ComputerMove() (search.Result, error) {
	if that.game.IsFinished() {
		return search.Result{}, apperror.ErrGameFinished
	}

	mark := that.game.ComputerMark()
	if that.game.Turn != mark {
		return search.Result{}, apperror.ErrNotYourTurn
	}

	result, err := that.bot.FindMove(that.game.Board, mark, search.Config{
		Difficulty: that.game.Difficulty,
		MaxDepth:   that.maxDepth,
	})
	if err != nil {
		return search.Result{}, fmt.Errorf("failed to find move: %w", err)
	}

	if !result.Found {
		return result, apperror.ErrNoLegalMove
	}

	if _, err = that.apply(mark, result.Move); err != nil {
		return result, err
	}

	return result, nil
}

// Reset - starts over on a fresh board of the given size.
func (that *GameController) Reset(size int) error {
	if err := that.game.Reset(size); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}

	return that.Start()
}

func (that *GameController) apply(mark entity.Mark, move entity.Move) (bool, error) {
	if err := that.game.MakeTurn(mark, move.Row, move.Col); err != nil {
		return false, fmt.Errorf("invalid turn: %w", err)
	}

	that.listener.MoveApplied(move, mark)

	outcome := that.game.Outcome()
	if outcome.IsTerminal() {
		that.listener.GameEnded(outcome)
		return true, nil
	}

	return false, nil
}
