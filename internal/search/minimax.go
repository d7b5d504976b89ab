package search

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const winScore = 10

type minimax struct {
	board    *entity.Board
	me       entity.Mark
	opponent entity.Mark
	maxDepth int
	limited  bool
	prune    bool
	stats    Stats
}

// BestMove - scores every empty cell for mark and returns the first one with
// the highest score in row-major order. Faster wins and slower losses score
// higher because the terminal score is shaped by depth. A mark that is not a
// player gets no move.
func BestMove(board *entity.Board, mark entity.Mark, conf Config) Result {
	if !mark.IsPlayer() {
		return Result{}
	}

	maxDepth, limited := conf.DepthLimit(board.Size)

	tree := &minimax{
		board:    board,
		me:       mark,
		opponent: mark.Opponent(),
		maxDepth: maxDepth,
		limited:  limited,
		prune:    !conf.DisablePruning,
	}

	result := Result{Score: math.MinInt}
	for move := range board.EmptyCells() {
		score := tree.try(move, mark, func() int {
			return tree.score(0, false, math.MinInt, math.MaxInt)
		})

		if !result.Found || score > result.Score {
			result.Move, result.Score, result.Found = move, score, true
		}
	}

	if !result.Found {
		result.Score = 0
	}
	result.Stats = tree.stats

	return result
}

func (that *minimax) score(depth int, maximizing bool, alpha, beta int) int {
	that.stats.Nodes++

	switch {
	case that.board.HasLine(that.me):
		that.stats.Leaves++
		return winScore - depth
	case that.board.HasLine(that.opponent):
		that.stats.Leaves++
		return depth - winScore
	case that.board.IsFull(), that.limited && depth >= that.maxDepth:
		that.stats.Leaves++
		return 0
	}

	mover, best := that.opponent, math.MaxInt
	if maximizing {
		mover, best = that.me, math.MinInt
	}

	for move := range that.board.EmptyCells() {
		child := that.try(move, mover, func() int {
			return that.score(depth+1, !maximizing, alpha, beta)
		})

		if maximizing {
			best = max(best, child)
			alpha = max(alpha, best)
		} else {
			best = min(best, child)
			beta = min(beta, best)
		}

		if that.prune && beta <= alpha {
			break
		}
	}

	return best
}

// try - places mark at move, evaluates, and clears the cell again on every exit path.
func (that *minimax) try(move entity.Move, mark entity.Mark, eval func() int) int {
	if err := that.board.Place(move.Row, move.Col, mark); err != nil {
		panic(fmt.Errorf("trial placement %s: %w", move, err))
	}
	defer that.board.Clear(move.Row, move.Col)

	return eval()
}
