// Package search picks the computer's move: a uniformly random empty cell on
// easy, depth-limited minimax with alpha-beta pruning on hard.
package search

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	// Unlimited disables the depth cap.
	Unlimited = -1

	smallBoardDepth = 6
	largeBoardDepth = 3
)

type Config struct {
	Difficulty entity.Difficulty
	// MaxDepth is the ply cap: 0 picks the per-size default, Unlimited removes it.
	MaxDepth       int
	DisablePruning bool
}

// DepthLimit - resolves the effective cap for a board size. ok is false when
// the search is unbounded.
func (that Config) DepthLimit(size int) (int, bool) {
	switch {
	case that.MaxDepth == Unlimited:
		return 0, false
	case that.MaxDepth > 0:
		return that.MaxDepth, true
	case size > entity.MinBoardSize:
		return largeBoardDepth, true
	default:
		return smallBoardDepth, true
	}
}

type Stats struct {
	// Nodes counts every position scored by the recursion.
	Nodes int
	// Leaves counts positions scored without expanding: a line, a full board or the depth cap.
	Leaves int
}

type Result struct {
	Move  entity.Move
	Score int
	Found bool
	Stats Stats
}

type Engine struct {
	intn func(n int) int
}

// New - builds an engine. rnd may be nil, in which case the shared math/rand
// source is used.
func New(rnd *rand.Rand) *Engine {
	if rnd == nil {
		return &Engine{intn: rand.Intn}
	}
	return &Engine{intn: rnd.Intn}
}

// FindMove - chooses a move for mark according to conf. The board is borrowed
// for the duration of the call and returned unchanged. A full board yields a
// Result with Found set to false.
func (that *Engine) FindMove(board *entity.Board, mark entity.Mark, conf Config) (Result, error) {
	if !mark.IsPlayer() {
		return Result{}, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	switch conf.Difficulty {
	case entity.DifficultyEasy:
		move, ok := that.RandomMove(board)
		return Result{Move: move, Found: ok}, nil
	case entity.DifficultyHard:
		return BestMove(board, mark, conf), nil
	default:
		return Result{}, fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, conf.Difficulty)
	}
}

// RandomMove - picks one empty cell uniformly.
func (that *Engine) RandomMove(board *entity.Board) (entity.Move, bool) {
	cells := slices.Collect(board.EmptyCells())
	if len(cells) == 0 {
		return entity.Move{}, false
	}

	return cells[that.intn(len(cells))], true
}
