package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var (
	errMalformedPayload = errors.New("malformed payload")
	errMissingCell      = errors.New("row and col are required")
)

// clientErrors are safe to show as they are; anything else is reported as internalError.
var clientErrors = []error{
	apperror.ErrCellOccupied,
	apperror.ErrOutOfRange,
	apperror.ErrGameFinished,
	apperror.ErrNotYourTurn,
	apperror.ErrInvalidSize,
	apperror.ErrInvalidMark,
	apperror.ErrUnknownDifficulty,
	apperror.ErrGameNotFound,
	errMalformedPayload,
	errMissingCell,
}

const internalError = "internal error"

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	var payload Payload
	if err := decodePayload(msg, &payload); err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	if payload.Size == 0 {
		payload.Size = that.defaults.DefaultSize
	}

	if payload.Difficulty == "" {
		payload.Difficulty = that.defaults.DefaultDifficulty
	}

	difficulty, err := entity.ParseDifficulty(payload.Difficulty)
	if err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	humanMark := entity.PlayerX
	if payload.HumanMark != "" {
		humanMark = entity.Mark(strings.ToUpper(strings.TrimSpace(payload.HumanMark)))
	}

	turn, err := that.games.CreateGame(ctx, payload.Size, difficulty, humanMark)
	if err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	return that.sendTurn(conn, msg.Action, turn)
}

func (that *Server) handleDifficulty(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	var payload Payload
	if err := decodePayload(msg, &payload); err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	difficulty, err := entity.ParseDifficulty(payload.Difficulty)
	if err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	game, err := that.games.SetDifficulty(ctx, payload.GameID, difficulty)
	if err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	return that.sendMessage(conn, msg.Action, gameState(game))
}

// handleGameTurn - clicks on occupied cells are dropped without a reply.
func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleGameTurn")

	var payload Payload
	if err := decodePayload(msg, &payload); err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	if payload.Row == nil || payload.Col == nil {
		return that.replyError(conn, msg.Action, errMissingCell)
	}

	log = log.With("gameID", payload.GameID)

	turn, err := that.games.MakeTurn(ctx, payload.GameID, *payload.Row, *payload.Col)
	if errors.Is(err, apperror.ErrCellOccupied) {
		log.Debug("ignored move on occupied cell", "row", *payload.Row, "col", *payload.Col)
		return nil
	}

	if err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	return that.sendTurn(conn, msg.Action, turn)
}

func (that *Server) handleReset(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	var payload Payload
	if err := decodePayload(msg, &payload); err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	turn, err := that.games.ResetGame(ctx, payload.GameID, payload.Size)
	if err != nil {
		return that.replyError(conn, msg.Action, err)
	}

	return that.sendTurn(conn, msg.Action, turn)
}

// replyError - answers with the error text for client mistakes and a fixed
// message for everything else.
func (that *Server) replyError(conn *websocket.Conn, action string, err error) error {
	log := that.logger.With("method", "replyError", "action", action)

	for _, known := range clientErrors {
		if errors.Is(err, known) {
			log.Debug("request rejected", "error", err)
			return that.sendError(conn, action, err.Error())
		}
	}

	log.Error("request failed", "error", err)

	return that.sendError(conn, action, internalError)
}

func decodePayload(msg *Message, payload *Payload) error {
	if len(msg.Payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(msg.Payload, payload); err != nil {
		return errMalformedPayload
	}

	return nil
}
