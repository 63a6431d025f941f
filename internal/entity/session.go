package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomokuhub/gomoku-backend/internal/apperror"
)

const (
	BoardSize = 15

	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

var ErrUnknownGameStatus = fmt.Errorf("unknown game status")

// Cell is the content of one board square: empty, a black stone or a white stone.
type Cell string

const (
	CellEmpty Cell = ""
	CellBlack Cell = "B"
	CellWhite Cell = "W"
)

func (that Cell) IsStone() bool {
	return that == CellBlack || that == CellWhite
}

type Board [BoardSize][BoardSize]Cell

// UnmarshalJSON rejects boards whose shape or cell values do not match the
// schema instead of silently coercing them.
func (that *Board) UnmarshalJSON(data []byte) error {
	var rows [][]Cell
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to decode board: %w", err)
	}

	if len(rows) != BoardSize {
		return fmt.Errorf("board must have %d rows, got %d", BoardSize, len(rows))
	}

	for r, row := range rows {
		if len(row) != BoardSize {
			return fmt.Errorf("board row %d must have %d cells, got %d", r, BoardSize, len(row))
		}

		for c, cell := range row {
			if cell != CellEmpty && !cell.IsStone() {
				return fmt.Errorf("invalid cell %q at row %d, col %d", cell, r, c)
			}
			that[r][c] = cell
		}
	}

	return nil
}

// Move is one stone placement. Number is 1-based and strictly increasing
// within a session.
type Move struct {
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Player    Cell      `json:"player"`
	Number    int       `json:"moveNumber"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the complete mutable state of one game: board, move history,
// whose turn it is and how the game ended, if it did.
type Session struct {
	ID      string    `json:"id"`
	Board   Board     `json:"board"`
	History []Move    `json:"moveHistory"`
	Turn    Cell      `json:"currentPlayer"`
	Status  string    `json:"gameStatus"`
	Winner  Cell      `json:"winner,omitempty"`
	SavedAt time.Time `json:"savedAt"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:     id,
		Turn:   CellBlack,
		Status: StatusPlaying,
	}
}

// Reset reinitializes the session to an empty board with black to move.
func (that *Session) Reset() {
	that.Board = Board{}
	that.History = nil
	that.Turn = CellBlack
	that.Status = StatusPlaying
	that.Winner = CellEmpty
}

func (that *Session) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Session) IsWon() bool {
	return that.Status == StatusWon
}

func (that *Session) IsDraw() bool {
	return that.Status == StatusDraw
}

// ConfirmPlaying reports whether the session still accepts moves and undo.
func (that *Session) ConfirmPlaying() error {
	switch {
	case that.IsPlaying():
		return nil
	case that.IsWon(), that.IsDraw():
		return apperror.ErrGameOver
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Session) StoneCount() int {
	count := 0
	for r := range that.Board {
		for c := range that.Board[r] {
			if that.Board[r][c].IsStone() {
				count++
			}
		}
	}

	return count
}

// Snapshot returns a deep copy of the session. Mutating the copy's board or
// history never affects the original.
func (that *Session) Snapshot() *Session {
	snapshot := *that
	snapshot.History = append([]Move(nil), that.History...)

	return &snapshot
}

// Validate checks the cross-field invariants of a session, typically after
// it was decoded from persisted state.
func (that *Session) Validate() error {
	switch that.Turn {
	case CellBlack, CellWhite:
	default:
		return fmt.Errorf("invalid current player %q", that.Turn)
	}

	switch that.Status {
	case StatusPlaying, StatusWon, StatusDraw:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGameStatus, that.Status)
	}

	if that.IsWon() && !that.Winner.IsStone() {
		return fmt.Errorf("won game has no winner")
	}

	if !that.IsWon() && that.Winner != CellEmpty {
		return fmt.Errorf("winner %q set on a game that is not won", that.Winner)
	}

	if len(that.History) != that.StoneCount() {
		return fmt.Errorf("history has %d moves but board has %d stones", len(that.History), that.StoneCount())
	}

	for i, move := range that.History {
		if move.Number != i+1 {
			return fmt.Errorf("move %d has sequence number %d", i+1, move.Number)
		}

		if move.Row < 0 || move.Row >= BoardSize || move.Col < 0 || move.Col >= BoardSize {
			return fmt.Errorf("move %d is out of range: row %d, col %d", move.Number, move.Row, move.Col)
		}

		if that.Board[move.Row][move.Col] != move.Player {
			return fmt.Errorf("move %d does not match the stone at row %d, col %d", move.Number, move.Row, move.Col)
		}
	}

	return nil
}
