package gomoku

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomokuhub/gomoku-backend/internal/apperror"
	"github.com/gomokuhub/gomoku-backend/internal/entity"
)

func TestMakeMove(t *testing.T) {
	t.Run("Places a stone and switches the turn", func(t *testing.T) {
		// Given: a fresh session with black to move
		session := entity.NewSession("123")

		// When: black plays the center
		err := MakeMove(session, 7, 7)
		require.NoError(t, err)

		// Then: the stone is placed, recorded, and it is white's turn
		assert.Equal(t, entity.CellBlack, session.Board[7][7])
		assert.Equal(t, entity.CellWhite, session.Turn)
		assert.Equal(t, entity.StatusPlaying, session.Status)

		require.Len(t, session.History, 1)
		move := session.History[0]
		assert.Equal(t, 7, move.Row)
		assert.Equal(t, 7, move.Col)
		assert.Equal(t, entity.CellBlack, move.Player)
		assert.Equal(t, 1, move.Number)
		assert.False(t, move.Timestamp.IsZero())
	})

	t.Run("Numbers moves 1-based and strictly increasing", func(t *testing.T) {
		session := entity.NewSession("123")

		require.NoError(t, MakeMove(session, 0, 0))
		require.NoError(t, MakeMove(session, 0, 1))
		require.NoError(t, MakeMove(session, 0, 2))

		require.Len(t, session.History, 3)
		for i, move := range session.History {
			assert.Equal(t, i+1, move.Number)
		}
		assert.Equal(t, entity.CellWhite, session.History[1].Player)
	})

	t.Run("Rejects an occupied cell and leaves the state unchanged", func(t *testing.T) {
		// Given: black has taken the center
		session := entity.NewSession("123")
		require.NoError(t, MakeMove(session, 7, 7))

		// When: white tries the same cell
		err := MakeMove(session, 7, 7)

		// Then: the move fails and nothing changed
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Equal(t, entity.CellBlack, session.Board[7][7])
		assert.Equal(t, entity.CellWhite, session.Turn)
		assert.Len(t, session.History, 1)
	})

	t.Run("Rejects out-of-range coordinates", func(t *testing.T) {
		session := entity.NewSession("123")

		for _, coord := range [][2]int{{-1, 0}, {15, 0}, {0, -1}, {0, 15}} {
			err := MakeMove(session, coord[0], coord[1])
			assert.ErrorIs(t, err, apperror.ErrInvalidMove)
		}

		assert.Empty(t, session.History)
		assert.Equal(t, entity.CellBlack, session.Turn)
	})

	t.Run("Fifth stone in a row wins and the turn does not switch", func(t *testing.T) {
		// Given: black builds an open row while white answers elsewhere
		session := entity.NewSession("123")
		for col := 5; col <= 8; col++ {
			require.NoError(t, MakeMove(session, 7, col)) // black
			require.NoError(t, MakeMove(session, 8, col)) // white
		}

		// When: black completes the line
		require.NoError(t, MakeMove(session, 7, 9))

		// Then: black won and keeps the turn marker
		assert.Equal(t, entity.StatusWon, session.Status)
		assert.Equal(t, entity.CellBlack, session.Winner)
		assert.Equal(t, entity.CellBlack, session.Turn)
		assert.Len(t, session.History, 9)
	})

	t.Run("Rejects moves after the game is won", func(t *testing.T) {
		// Given: a finished game
		session := winningSession(t)

		// When: another move arrives
		err := MakeMove(session, 0, 0)

		// Then: it is refused and the board is untouched
		require.ErrorIs(t, err, apperror.ErrGameOver)
		assert.Equal(t, entity.CellEmpty, session.Board[0][0])
	})

	t.Run("Filling the last cell without a winner ends in a draw", func(t *testing.T) {
		// Given: a full game played out over a tiling with no five-in-a-row
		session := entity.NewSession("123")
		blacks, whites := drawFillCoords(t)
		require.Len(t, blacks, 113)
		require.Len(t, whites, 112)

		// When: black and white alternate through every cell
		for i, black := range blacks {
			require.NoError(t, MakeMove(session, black.Row, black.Col))

			if i < len(whites) {
				assert.Equal(t, entity.StatusPlaying, session.Status)
				require.NoError(t, MakeMove(session, whites[i].Row, whites[i].Col))
			}
		}

		// Then: the final stone produces a draw with no winner
		assert.Equal(t, entity.StatusDraw, session.Status)
		assert.Equal(t, entity.CellEmpty, session.Winner)
		assert.Len(t, session.History, entity.BoardSize*entity.BoardSize)
	})
}

func TestUndo(t *testing.T) {
	t.Run("Removes the last move and returns the turn to its player", func(t *testing.T) {
		// Given: black then white have played
		session := entity.NewSession("123")
		require.NoError(t, MakeMove(session, 7, 7))
		require.NoError(t, MakeMove(session, 8, 8))

		// When: undoing once
		require.NoError(t, Undo(session))

		// Then: white's stone is gone and it is white's turn again
		assert.Equal(t, entity.CellEmpty, session.Board[8][8])
		assert.Equal(t, entity.CellWhite, session.Turn)
		require.Len(t, session.History, 1)
		assert.Equal(t, 1, session.History[0].Number)
	})

	t.Run("Fails on an empty history", func(t *testing.T) {
		session := entity.NewSession("123")

		err := Undo(session)

		assert.ErrorIs(t, err, apperror.ErrNothingToUndo)
	})

	t.Run("Rejects undo once the game is won", func(t *testing.T) {
		// Given: a finished game
		session := winningSession(t)
		before := session.Snapshot()

		// When: trying to take back the winning move
		err := Undo(session)

		// Then: the undo is refused and the state is unchanged
		require.ErrorIs(t, err, apperror.ErrGameOver)
		assert.Equal(t, before, session.Snapshot())
	})
}

func TestReset(t *testing.T) {
	t.Run("Clears the board, history and result", func(t *testing.T) {
		// Given: a finished game
		session := winningSession(t)

		// When: resetting
		session.Reset()

		// Then: the session is back to its initial state
		assert.Equal(t, entity.Board{}, session.Board)
		assert.Empty(t, session.History)
		assert.Equal(t, entity.CellBlack, session.Turn)
		assert.Equal(t, entity.StatusPlaying, session.Status)
		assert.Equal(t, entity.CellEmpty, session.Winner)

		// And: play can start over
		require.NoError(t, MakeMove(session, 7, 7))
	})
}

// winningSession plays out a horizontal win: black (7,5)..(7,9) with white
// answering on row 8.
func winningSession(t *testing.T) *entity.Session {
	t.Helper()

	session := entity.NewSession("123")
	for col := 5; col <= 8; col++ {
		require.NoError(t, MakeMove(session, 7, col))
		require.NoError(t, MakeMove(session, 8, col))
	}
	require.NoError(t, MakeMove(session, 7, 9))
	require.True(t, session.IsWon())

	return session
}

// drawFillCoords splits the board into black and white cells of the
// no-five-in-a-row tiling (black iff (row + col/2) is even), each list in
// row-major order.
func drawFillCoords(t *testing.T) ([]Coord, []Coord) {
	t.Helper()

	var blacks, whites []Coord
	for r := 0; r < entity.BoardSize; r++ {
		for c := 0; c < entity.BoardSize; c++ {
			if (r+c/2)%2 == 0 {
				blacks = append(blacks, Coord{Row: r, Col: c})
			} else {
				whites = append(whites, Coord{Row: r, Col: c})
			}
		}
	}

	return blacks, whites
}
