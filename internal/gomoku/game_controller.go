package gomoku

import (
	"fmt"
	"time"

	"github.com/gomokuhub/gomoku-backend/internal/apperror"
	"github.com/gomokuhub/gomoku-backend/internal/entity"
)

// MakeMove places the current player's stone at (row, col). It fails with
// apperror.ErrGameOver once the game has ended and apperror.ErrInvalidMove
// for out-of-range or occupied cells; the session is left unchanged on
// failure. On success the board, history, status and turn are updated as
// one synchronous step.
func MakeMove(session *entity.Session, row, col int) error {
	if err := session.ConfirmPlaying(); err != nil {
		return err
	}

	if !IsValidMove(&session.Board, row, col) {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrInvalidMove, row, col)
	}

	player := session.Turn
	session.Board[row][col] = player
	session.History = append(session.History, entity.Move{
		Row:       row,
		Col:       col,
		Player:    player,
		Number:    len(session.History) + 1,
		Timestamp: time.Now().UTC(),
	})

	updateStatus(session, row, col, player)

	return nil
}

// updateStatus evaluates the session after a placed stone. The turn does not
// switch when the game ends, so the winner stays the current player.
func updateStatus(session *entity.Session, row, col int, player entity.Cell) {
	switch {
	case CheckWinner(&session.Board, row, col, player):
		session.Status = entity.StatusWon
		session.Winner = player
	case CheckDraw(&session.Board):
		session.Status = entity.StatusDraw
	default:
		session.Turn = toggleTurn(player)
	}
}

func toggleTurn(player entity.Cell) entity.Cell {
	if player == entity.CellBlack {
		return entity.CellWhite
	}

	return entity.CellBlack
}

// Undo reverses exactly the most recent move and gives the turn back to the
// player who made it. A finished game rejects undo, so a winning move cannot
// be taken back.
func Undo(session *entity.Session) error {
	if err := session.ConfirmPlaying(); err != nil {
		return err
	}

	if len(session.History) == 0 {
		return apperror.ErrNothingToUndo
	}

	last := session.History[len(session.History)-1]
	session.History = session.History[:len(session.History)-1]
	session.Board[last.Row][last.Col] = entity.CellEmpty
	session.Turn = last.Player

	return nil
}
