package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type handlers struct {
	logger   *slog.Logger
	games    gameManager
	defaults config.Game
}

type createGameRequest struct {
	Size       int    `json:"size"`
	Difficulty string `json:"difficulty"`
	HumanMark  string `json:"human_mark"`
}

type difficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type resetRequest struct {
	Size int `json:"size"`
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	if req.Size == 0 {
		req.Size = that.defaults.DefaultSize
	}

	if req.Difficulty == "" {
		req.Difficulty = that.defaults.DefaultDifficulty
	}

	difficulty, err := entity.ParseDifficulty(req.Difficulty)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	humanMark := entity.PlayerX
	if req.HumanMark != "" {
		humanMark = entity.Mark(strings.ToUpper(strings.TrimSpace(req.HumanMark)))
	}

	turn, err := that.games.CreateGame(r.Context(), req.Size, difficulty, humanMark)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTurnResponse(turn))
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGameResponse(game, nil))
}

func (that *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) setDifficulty(w http.ResponseWriter, r *http.Request) {
	var req difficultyRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	difficulty, err := entity.ParseDifficulty(req.Difficulty)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	game, err := that.games.SetDifficulty(r.Context(), mux.Vars(r)["id"], difficulty)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGameResponse(game, nil))
}

func (that *handlers) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	if req.Row == nil || req.Col == nil {
		that.writeError(w, r, errMissingCell)
		return
	}

	turn, err := that.games.MakeTurn(r.Context(), mux.Vars(r)["id"], *req.Row, *req.Col)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newTurnResponse(turn))
}

func (that *handlers) resetGame(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	turn, err := that.games.ResetGame(r.Context(), mux.Vars(r)["id"], req.Size)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newTurnResponse(turn))
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)

	log := that.logger.With("method", r.Method, "path", r.URL.Path, "status", status)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	log.Debug("request rejected", "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
