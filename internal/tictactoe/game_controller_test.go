package tictactoe

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSearchFailed = errors.New("search failed")

type stubFinder struct {
	result search.Result
	err    error
	calls  int
	conf   search.Config
}

func (that *stubFinder) FindMove(_ *entity.Board, _ entity.Mark, conf search.Config) (search.Result, error) {
	that.calls++
	that.conf = conf
	return that.result, that.err
}

func newGame(t *testing.T, size int, difficulty entity.Difficulty, human entity.Mark, rows ...string) *entity.Game {
	t.Helper()

	game, err := entity.NewGame("game-1", size, difficulty, human)
	require.NoError(t, err)

	if len(rows) > 0 {
		game.Board, err = entity.ParseBoard(rows...)
		require.NoError(t, err)
	}

	return game
}

func movedEvent(row, col int, mark entity.Mark) Event {
	return Event{Type: EventMoveApplied, Move: &entity.Move{Row: row, Col: col}, Mark: mark}
}

func endedEvent(outcome entity.Outcome) Event {
	return Event{Type: EventGameEnded, Outcome: &outcome}
}

func TestGameController_PlayerMove(t *testing.T) {
	t.Run("Human move is answered by the computer", func(t *testing.T) {
		// Given: a hard 3x3 game with the human playing X
		recorder := &Recorder{}
		game := newGame(t, 3, entity.DifficultyHard, entity.PlayerX)
		controller := NewGameController(game, search.New(nil), recorder)

		// When: the human takes the centre
		err := controller.PlayerMove(1, 1)

		// Then: both moves are applied and reported in order
		require.NoError(t, err)
		require.Len(t, recorder.Events, 2)
		assert.Equal(t, movedEvent(1, 1, entity.PlayerX), recorder.Events[0])
		assert.Equal(t, EventMoveApplied, recorder.Events[1].Type)
		assert.Equal(t, entity.PlayerO, recorder.Events[1].Mark)
		assert.Equal(t, entity.PlayerX, game.Turn)
	})

	t.Run("Computer blocks the human's line", func(t *testing.T) {
		recorder := &Recorder{}
		game := newGame(t, 3, entity.DifficultyHard, entity.PlayerX, "X..", "...", "..O")
		game.Turn = entity.PlayerX
		controller := NewGameController(game, search.New(nil), recorder, WithMaxDepth(search.Unlimited))

		require.NoError(t, controller.PlayerMove(0, 1))

		assert.Equal(t, entity.PlayerO, game.Board.At(0, 2))
	})

	t.Run("Occupied cell is rejected without side effects", func(t *testing.T) {
		// Given: a game where (0,0) is taken
		recorder := &Recorder{}
		game := newGame(t, 3, entity.DifficultyEasy, entity.PlayerX, "X..", ".O.", "...")
		bot := &stubFinder{}
		controller := NewGameController(game, bot, recorder)
		before := game.Board.Clone()

		// When: the human clicks it
		err := controller.PlayerMove(0, 0)

		// Then: the error is reported and nothing else happens
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, game.Board)
		assert.Empty(t, recorder.Events)
		assert.Zero(t, bot.calls)
	})

	t.Run("Out of range coordinates are reported", func(t *testing.T) {
		game := newGame(t, 4, entity.DifficultyEasy, entity.PlayerX)
		controller := NewGameController(game, &stubFinder{}, nil)

		err := controller.PlayerMove(4, 0)

		require.ErrorIs(t, err, apperror.ErrOutOfRange)
	})

	t.Run("Human cannot move on the computer's turn", func(t *testing.T) {
		game := newGame(t, 3, entity.DifficultyEasy, entity.PlayerO)
		controller := NewGameController(game, &stubFinder{}, nil)

		err := controller.PlayerMove(0, 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Winning human move ends the game without a computer reply", func(t *testing.T) {
		// Given: X about to complete the top row
		recorder := &Recorder{}
		game := newGame(t, 3, entity.DifficultyHard, entity.PlayerX, "XX.", "OO.", "...")
		bot := &stubFinder{}
		controller := NewGameController(game, bot, recorder)

		// When: X completes it
		err := controller.PlayerMove(0, 2)

		// Then: the win is reported and the computer is never asked
		require.NoError(t, err)
		assert.Equal(t, []Event{
			movedEvent(0, 2, entity.PlayerX),
			endedEvent(entity.Outcome{Status: entity.OutcomeWin, Winner: entity.PlayerX}),
		}, recorder.Events)
		assert.Zero(t, bot.calls)
	})

	t.Run("Computer's winning reply ends the game", func(t *testing.T) {
		recorder := &Recorder{}
		game := newGame(t, 3, entity.DifficultyHard, entity.PlayerX, "X.X", "OO.", "X..")
		controller := NewGameController(game, search.New(nil), recorder)

		require.NoError(t, controller.PlayerMove(2, 2))

		require.Len(t, recorder.Events, 3)
		assert.Equal(t, movedEvent(1, 2, entity.PlayerO), recorder.Events[1])
		assert.Equal(t, endedEvent(entity.Outcome{Status: entity.OutcomeWin, Winner: entity.PlayerO}), recorder.Events[2])
	})

	t.Run("Last cell draws", func(t *testing.T) {
		recorder := &Recorder{}
		game := newGame(t, 3, entity.DifficultyEasy, entity.PlayerX, "XXO", "OOX", "XO.")
		controller := NewGameController(game, &stubFinder{}, recorder)

		require.NoError(t, controller.PlayerMove(2, 2))

		assert.Equal(t, endedEvent(entity.Outcome{Status: entity.OutcomeDraw}), recorder.Events[1])
	})

	t.Run("Finished game is absorbing", func(t *testing.T) {
		// Given: a game O has won
		recorder := &Recorder{}
		game := newGame(t, 3, entity.DifficultyEasy, entity.PlayerX, "OOO", "XX.", "X..")
		controller := NewGameController(game, &stubFinder{}, recorder)
		before := game.Board.Clone()

		// When: the human keeps clicking
		err := controller.PlayerMove(1, 2)

		// Then: ErrGameFinished and nothing changes
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, before, game.Board)
		assert.Empty(t, recorder.Events)
	})

	t.Run("Search failure is surfaced", func(t *testing.T) {
		game := newGame(t, 3, entity.DifficultyHard, entity.PlayerX)
		controller := NewGameController(game, &stubFinder{err: errSearchFailed}, nil)

		err := controller.PlayerMove(0, 0)

		require.ErrorIs(t, err, errSearchFailed)
	})
}

func TestGameController_ComputerMove(t *testing.T) {
	t.Run("Uses the game's difficulty and the configured depth", func(t *testing.T) {
		game := newGame(t, 5, entity.DifficultyHard, entity.PlayerO)
		bot := &stubFinder{result: search.Result{Move: entity.Move{Row: 2, Col: 2}, Found: true}}
		controller := NewGameController(game, bot, nil, WithMaxDepth(2))

		result, err := controller.ComputerMove()

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 2, Col: 2}, result.Move)
		assert.Equal(t, search.Config{Difficulty: entity.DifficultyHard, MaxDepth: 2}, bot.conf)
		assert.Equal(t, entity.PlayerX, game.Board.At(2, 2))
		assert.True(t, game.IsHumanTurn())
	})

	t.Run("No move found is reported as ErrNoLegalMove", func(t *testing.T) {
		game := newGame(t, 3, entity.DifficultyEasy, entity.PlayerO)
		controller := NewGameController(game, &stubFinder{}, nil)

		_, err := controller.ComputerMove()

		require.ErrorIs(t, err, apperror.ErrNoLegalMove)
	})

	t.Run("Not the computer's turn", func(t *testing.T) {
		game := newGame(t, 3, entity.DifficultyEasy, entity.PlayerX)
		controller := NewGameController(game, &stubFinder{}, nil)

		_, err := controller.ComputerMove()

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})
}

func TestGameController_Start(t *testing.T) {
	t.Run("Computer opens when the human plays O", func(t *testing.T) {
		recorder := &Recorder{}
		game := newGame(t, 3, entity.DifficultyEasy, entity.PlayerO)
		controller := NewGameController(game, search.New(rand.New(rand.NewSource(3))), recorder)

		require.NoError(t, controller.Start())

		require.Len(t, recorder.Events, 1)
		assert.Equal(t, entity.PlayerX, recorder.Events[0].Mark)
		assert.True(t, game.IsHumanTurn())
	})

	t.Run("Nothing happens when the human plays X", func(t *testing.T) {
		recorder := &Recorder{}
		game := newGame(t, 3, entity.DifficultyEasy, entity.PlayerX)
		bot := &stubFinder{}
		controller := NewGameController(game, bot, recorder)

		require.NoError(t, controller.Start())

		assert.Empty(t, recorder.Events)
		assert.Zero(t, bot.calls)
	})
}

func TestGameController_SetDifficulty(t *testing.T) {
	game := newGame(t, 3, entity.DifficultyEasy, entity.PlayerX)
	controller := NewGameController(game, &stubFinder{}, nil)

	require.NoError(t, controller.SetDifficulty(entity.DifficultyHard))
	assert.Equal(t, entity.DifficultyHard, game.Difficulty)

	require.ErrorIs(t, controller.SetDifficulty("medium"), apperror.ErrUnknownDifficulty)
	assert.Equal(t, entity.DifficultyHard, game.Difficulty)
}

func TestGameController_Reset(t *testing.T) {
	t.Run("Finished game can be replaced by a new board", func(t *testing.T) {
		game := newGame(t, 3, entity.DifficultyEasy, entity.PlayerX, "XXX", "OO.", "...")
		controller := NewGameController(game, search.New(nil), nil)

		require.NoError(t, controller.Reset(4))

		assert.Equal(t, 4, game.Board.Size)
		assert.False(t, game.IsFinished())
		require.NoError(t, controller.PlayerMove(3, 3))
	})

	t.Run("Invalid size is rejected", func(t *testing.T) {
		game := newGame(t, 3, entity.DifficultyEasy, entity.PlayerX)
		controller := NewGameController(game, &stubFinder{}, nil)

		require.ErrorIs(t, controller.Reset(7), apperror.ErrInvalidSize)
	})
}

func TestGameController_FullGames(t *testing.T) {
	for size := entity.MinBoardSize; size <= entity.MaxBoardSize; size++ {
		for _, human := range []entity.Mark{entity.PlayerX, entity.PlayerO} {
			// Given: a human playing random legal moves against the hard computer
			var opts []Option
			if size == entity.MinBoardSize {
				opts = append(opts, WithMaxDepth(search.Unlimited))
			}

			recorder := &Recorder{}
			game := newGame(t, size, entity.DifficultyHard, human)
			controller := NewGameController(game, search.New(nil), recorder, opts...)
			humanMoves := search.New(rand.New(rand.NewSource(int64(size))))

			// When: the game is played out
			require.NoError(t, controller.Start())
			for !game.IsFinished() {
				move, ok := humanMoves.RandomMove(game.Board)
				require.True(t, ok)
				require.NoError(t, controller.PlayerMove(move.Row, move.Col))
			}

			// Then: exactly one end event closes the stream and the board agrees with it
			last := recorder.Events[len(recorder.Events)-1]
			require.Equal(t, EventGameEnded, last.Type)
			assert.Equal(t, game.Outcome(), *last.Outcome)

			moves := 0
			for _, event := range recorder.Events[:len(recorder.Events)-1] {
				require.Equal(t, EventMoveApplied, event.Type)
				moves++
			}
			assert.Equal(t, size*size-len(collectEmpty(game.Board)), moves)

			if size == entity.MinBoardSize {
				assert.NotEqual(t, human, game.Outcome().Winner, "random play must not beat the 3x3 search")
			}
		}
	}
}

func collectEmpty(board *entity.Board) []entity.Move {
	var cells []entity.Move
	for move := range board.EmptyCells() {
		cells = append(cells, move)
	}
	return cells
}
