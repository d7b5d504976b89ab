package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	actionNewGame    = "game:new"
	actionDifficulty = "game:difficulty"
	actionTurn       = "game:turn"
	actionReset      = "game:reset"
	actionError      = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is what clients send along with an action.
type Payload struct {
	GameID     string `json:"game_id,omitempty"`
	Size       int    `json:"size,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	HumanMark  string `json:"human_mark,omitempty"`
	Row        *int   `json:"row,omitempty"`
	Col        *int   `json:"col,omitempty"`
}

// ResponsePayload carries either game state, a single event or an error.
type ResponsePayload struct {
	Game    *entity.Game    `json:"game,omitempty"`
	Outcome *entity.Outcome `json:"outcome,omitempty"`
	Move    *entity.Move    `json:"move,omitempty"`
	Mark    entity.Mark     `json:"mark,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func gameState(game *entity.Game) ResponsePayload {
	outcome := game.Outcome()

	return ResponsePayload{
		Game:    game,
		Outcome: &outcome,
	}
}
