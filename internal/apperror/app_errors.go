package apperror

import "errors"

var (
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrOutOfRange        = errors.New("coordinate is out of range")
	ErrNoLegalMove       = errors.New("no legal move")
	ErrGameFinished      = errors.New("game is already finished")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrInvalidSize       = errors.New("invalid board size")
	ErrInvalidMark       = errors.New("invalid mark")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrGameNotFound      = errors.New("game not found")
)
