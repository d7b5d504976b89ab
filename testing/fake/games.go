// Package fake holds in-memory stand-ins for the redis backed services.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Games stores copies of games so callers see what redis would hand back.
type Games struct {
	mu     sync.Mutex
	games  map[string]*entity.Game
	nextID int

	// UpdateErr is returned by every UpdateGame call when set.
	UpdateErr error
	Deleted   []string
}

func NewGames() *Games {
	return &Games{games: make(map[string]*entity.Game)}
}

func (that *Games) CreateGame(_ context.Context, size int, difficulty entity.Difficulty, humanMark entity.Mark) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.nextID++
	return entity.NewGame(fmt.Sprintf("game-%d", that.nextID), size, difficulty, humanMark)
}

func (that *Games) GetGameByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}
	return copyGame(game), nil
}

func (that *Games) UpdateGame(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.UpdateErr != nil {
		return that.UpdateErr
	}
	that.games[game.ID] = copyGame(game)
	return nil
}

func (that *Games) DeleteGame(_ context.Context, gameID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[gameID]; !ok {
		return apperror.ErrGameNotFound
	}
	delete(that.games, gameID)
	that.Deleted = append(that.Deleted, gameID)
	return nil
}

// Len - number of stored sessions.
func (that *Games) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.games)
}

func copyGame(game *entity.Game) *entity.Game {
	cp := *game
	cp.Board = game.Board.Clone()
	return &cp
}
