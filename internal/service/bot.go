package service

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
)

type BotService interface {
	FindMove(board *entity.Board, mark entity.Mark, conf search.Config) (search.Result, error)
}

type engine interface {
	FindMove(board *entity.Board, mark entity.Mark, conf search.Config) (search.Result, error)
}

type botService struct {
	logger *slog.Logger
	engine engine
}

// NewBotService - wraps the search engine with logging and metrics.
func NewBotService(logger *slog.Logger, engine engine) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
		engine: engine,
	}
}

func (that *botService) FindMove(board *entity.Board, mark entity.Mark, conf search.Config) (search.Result, error) {
	log := that.logger.With("method", "FindMove", "difficulty", conf.Difficulty, "size", board.Size)

	started := time.Now()
	result, err := that.engine.FindMove(board, mark, conf)
	elapsed := time.Since(started)

	if err != nil {
		return search.Result{}, fmt.Errorf("bot failed to choose a move: %w", err)
	}

	size := strconv.Itoa(board.Size)
	metrics.SearchDuration.WithLabelValues(string(conf.Difficulty), size).Observe(elapsed.Seconds())
	metrics.SearchNodes.WithLabelValues(size).Add(float64(result.Stats.Nodes))

	if !result.Found {
		log.Warn("no empty cell left for the bot")
		return result, nil
	}

	log.Debug("bot chose a move",
		"move", result.Move.String(),
		"score", result.Score,
		"nodes", result.Stats.Nodes,
		"leaves", result.Stats.Leaves,
		"duration", elapsed,
	)

	return result, nil
}
