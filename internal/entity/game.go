package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type Difficulty string

const (
	DifficultyEasy Difficulty = "easy"
	DifficultyHard Difficulty = "hard"
)

func ParseDifficulty(value string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(value))); d {
	case DifficultyEasy, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, value)
	}
}

type OutcomeStatus string

const (
	OutcomeInProgress OutcomeStatus = "in_progress"
	OutcomeWin        OutcomeStatus = "win"
	OutcomeDraw       OutcomeStatus = "draw"
)

type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Winner Mark          `json:"winner,omitempty"`
}

func (that Outcome) IsTerminal() bool {
	return that.Status == OutcomeWin || that.Status == OutcomeDraw
}

// Game is a single human-versus-computer session. X always moves first.
type Game struct {
	ID         string     `json:"id"`
	Board      *Board     `json:"board"`
	Turn       Mark       `json:"player_turn"`
	HumanMark  Mark       `json:"human_mark"`
	Difficulty Difficulty `json:"difficulty"`
}

func NewGame(id string, size int, difficulty Difficulty, humanMark Mark) (*Game, error) {
	if !humanMark.IsPlayer() {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, humanMark)
	}

	if _, err := ParseDifficulty(string(difficulty)); err != nil {
		return nil, err
	}

	board, err := NewBoard(size)
	if err != nil {
		return nil, err
	}

	return &Game{
		ID:         id,
		Board:      board,
		Turn:       PlayerX,
		HumanMark:  humanMark,
		Difficulty: difficulty,
	}, nil
}

func (that *Game) ComputerMark() Mark {
	return that.HumanMark.Opponent()
}

func (that *Game) IsHumanTurn() bool {
	return that.Turn == that.HumanMark
}

func (that *Game) Outcome() Outcome {
	return that.Board.Outcome()
}

func (that *Game) IsFinished() bool {
	return that.Outcome().IsTerminal()
}

// MakeTurn - the only transition that changes whose turn it is.
func (that *Game) MakeTurn(mark Mark, row, col int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if err := that.Board.Place(row, col, mark); err != nil {
		return fmt.Errorf("failed to place mark: %w", err)
	}

	that.Turn = mark.Opponent()

	return nil
}

// Reset - replaces the board wholesale, keeping difficulty and marks.
func (that *Game) Reset(size int) error {
	board, err := NewBoard(size)
	if err != nil {
		return err
	}

	that.Board = board
	that.Turn = PlayerX

	return nil
}

// Validate - checks a game decoded from storage before it is played on.
func (that *Game) Validate() error {
	if that.Board == nil {
		return fmt.Errorf("%w: missing board", apperror.ErrInvalidSize)
	}

	if err := that.Board.Validate(); err != nil {
		return err
	}

	if !that.HumanMark.IsPlayer() {
		return fmt.Errorf("%w: human %q", apperror.ErrInvalidMark, that.HumanMark)
	}

	if !that.Turn.IsPlayer() {
		return fmt.Errorf("%w: turn %q", apperror.ErrInvalidMark, that.Turn)
	}

	if _, err := ParseDifficulty(string(that.Difficulty)); err != nil {
		return err
	}

	return nil
}
