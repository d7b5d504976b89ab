package entity

import (
	"fmt"
	"iter"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	MinBoardSize = 3
	MaxBoardSize = 5
)

type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// IsPlayer reports whether the mark belongs to one of the two players.
func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent - returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Move is a 0-indexed (row, column) coordinate on the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Board is a square grid of marks. The only mutations are Place and Clear.
type Board struct {
	Size  int      `json:"size"`
	Cells [][]Mark `json:"cells"`
}

func NewBoard(size int) (*Board, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidSize, size)
	}

	cells := make([][]Mark, size)
	for i := range cells {
		cells[i] = make([]Mark, size)
	}

	return &Board{Size: size, Cells: cells}, nil
}

func (that *Board) InRange(row, col int) bool {
	return row >= 0 && row < that.Size && col >= 0 && col < that.Size
}

// At - returns the mark at (row, col), EmptyCell for out of range coordinates.
func (that *Board) At(row, col int) Mark {
	if !that.InRange(row, col) {
		return EmptyCell
	}
	return that.Cells[row][col]
}

// Place - puts mark at (row, col). The board is left untouched on error.
func (that *Board) Place(row, col int, mark Mark) error {
	if !mark.IsPlayer() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if !that.InRange(row, col) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d board", apperror.ErrOutOfRange, row, col, that.Size, that.Size)
	}

	if that.Cells[row][col] != EmptyCell {
		return fmt.Errorf("%w: (%d,%d)", apperror.ErrCellOccupied, row, col)
	}

	that.Cells[row][col] = mark

	return nil
}

// Clear - forces a cell back to empty. Used to undo trial placements.
func (that *Board) Clear(row, col int) {
	if that.InRange(row, col) {
		that.Cells[row][col] = EmptyCell
	}
}

func (that *Board) IsFull() bool {
	for _, row := range that.Cells {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}
	return true
}

// HasLine reports whether any full row, full column or one of the two main
// diagonals consists entirely of mark.
func (that *Board) HasLine(mark Mark) bool {
	if !mark.IsPlayer() {
		return false
	}

	n := that.Size
	for i := 0; i < n; i++ {
		if that.rowOf(i, mark) || that.columnOf(i, mark) {
			return true
		}
	}

	mainDiagonal, antiDiagonal := true, true
	for i := 0; i < n && (mainDiagonal || antiDiagonal); i++ {
		mainDiagonal = mainDiagonal && that.Cells[i][i] == mark
		antiDiagonal = antiDiagonal && that.Cells[i][n-1-i] == mark
	}

	return mainDiagonal || antiDiagonal
}

func (that *Board) rowOf(row int, mark Mark) bool {
	for _, cell := range that.Cells[row] {
		if cell != mark {
			return false
		}
	}
	return true
}

func (that *Board) columnOf(col int, mark Mark) bool {
	for row := range that.Cells {
		if that.Cells[row][col] != mark {
			return false
		}
	}
	return true
}

// EmptyCells yields the empty cells in row-major order. The sequence reads the
// board as it is iterated, so a cell cleared before it is reached is yielded.
func (that *Board) EmptyCells() iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for row := range that.Cells {
			for col := range that.Cells[row] {
				if that.Cells[row][col] != EmptyCell {
					continue
				}
				if !yield(Move{Row: row, Col: col}) {
					return
				}
			}
		}
	}
}

// Outcome is computed from the grid every time, it is never stored.
func (that *Board) Outcome() Outcome {
	switch {
	case that.HasLine(PlayerX):
		return Outcome{Status: OutcomeWin, Winner: PlayerX}
	case that.HasLine(PlayerO):
		return Outcome{Status: OutcomeWin, Winner: PlayerO}
	case that.IsFull():
		return Outcome{Status: OutcomeDraw}
	default:
		return Outcome{Status: OutcomeInProgress}
	}
}

func (that *Board) Clone() *Board {
	cells := make([][]Mark, len(that.Cells))
	for i, row := range that.Cells {
		cells[i] = append([]Mark(nil), row...)
	}
	return &Board{Size: that.Size, Cells: cells}
}

func (that *Board) String() string {
	var sb strings.Builder
	for i, row := range that.Cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, cell := range row {
			if cell == EmptyCell {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(cell))
		}
	}
	return sb.String()
}

// ParseBoard builds a board from rows such as "XO.", '.' or ' ' meaning empty.
func ParseBoard(rows ...string) (*Board, error) {
	board, err := NewBoard(len(rows))
	if err != nil {
		return nil, err
	}

	for r, line := range rows {
		if len(line) != board.Size {
			return nil, fmt.Errorf("%w: row %d has %d cells", apperror.ErrInvalidSize, r, len(line))
		}
		for c, ch := range line {
			switch ch {
			case '.', ' ':
			case 'X', 'O':
				board.Cells[r][c] = Mark(string(ch))
			default:
				return nil, fmt.Errorf("%w: %q at (%d,%d)", apperror.ErrInvalidMark, ch, r, c)
			}
		}
	}

	return board, nil
}

// Validate - checks a board built outside NewBoard, e.g. decoded from storage.
func (that *Board) Validate() error {
	if that.Size < MinBoardSize || that.Size > MaxBoardSize {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidSize, that.Size)
	}

	if len(that.Cells) != that.Size {
		return fmt.Errorf("%w: %d rows on a %dx%d board", apperror.ErrInvalidSize, len(that.Cells), that.Size, that.Size)
	}

	for r, row := range that.Cells {
		if len(row) != that.Size {
			return fmt.Errorf("%w: row %d has %d cells", apperror.ErrInvalidSize, r, len(row))
		}
		for c, mark := range row {
			if mark != EmptyCell && !mark.IsPlayer() {
				return fmt.Errorf("%w: %q at (%d,%d)", apperror.ErrInvalidMark, mark, r, c)
			}
		}
	}

	return nil
}
