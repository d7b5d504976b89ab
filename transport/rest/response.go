package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

var (
	errMalformedBody = errors.New("malformed request body")
	errMissingCell   = errors.New("row and col are required")
)

type gameResponse struct {
	Game    *entity.Game      `json:"game"`
	Outcome entity.Outcome    `json:"outcome"`
	Events  []tictactoe.Event `json:"events,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newGameResponse(game *entity.Game, events []tictactoe.Event) gameResponse {
	return gameResponse{
		Game:    game,
		Outcome: game.Outcome(),
		Events:  events,
	}
}

func newTurnResponse(turn *usecase.Turn) gameResponse {
	return newGameResponse(turn.Game, turn.Events)
}

// statusOf - maps domain errors onto http statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNotYourTurn):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrOutOfRange),
		errors.Is(err, apperror.ErrInvalidSize),
		errors.Is(err, apperror.ErrInvalidMark),
		errors.Is(err, apperror.ErrUnknownDifficulty),
		errors.Is(err, errMalformedBody),
		errors.Is(err, errMissingCell):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody - an empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	return fmt.Errorf("%w: %w", errMalformedBody, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
