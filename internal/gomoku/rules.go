package gomoku

import "github.com/gomokuhub/gomoku-backend/internal/entity"

// WinLength is the number of contiguous same-player stones needed to win.
const WinLength = 5

// axes are the four line directions checked for five-in-a-row: horizontal,
// vertical and both diagonals. Each is scanned as two opposite rays.
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Coord is one board position, row 0 = top, col 0 = left.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func inRange(row, col int) bool {
	return row >= 0 && row < entity.BoardSize && col >= 0 && col < entity.BoardSize
}

// IsValidMove reports whether the cell exists and is empty. Out-of-range
// coordinates return false rather than panic.
func IsValidMove(board *entity.Board, row, col int) bool {
	return inRange(row, col) && board[row][col] == entity.CellEmpty
}

// CheckWinner reports whether the stone just placed at (row, col) completes
// a line of at least WinLength for the given player. For every axis the
// count is 1 for the placed stone plus contiguous same-player stones along
// both opposite rays until a non-matching cell or the board edge.
func CheckWinner(board *entity.Board, row, col int, player entity.Cell) bool {
	if !inRange(row, col) || !player.IsStone() {
		return false
	}

	for _, axis := range axes {
		count := 1

		for r, c := row+axis[0], col+axis[1]; inRange(r, c) && board[r][c] == player; r, c = r+axis[0], c+axis[1] {
			count++
		}

		for r, c := row-axis[0], col-axis[1]; inRange(r, c) && board[r][c] == player; r, c = r-axis[0], c-axis[1] {
			count++
		}

		if count >= WinLength {
			return true
		}
	}

	return false
}

// CheckDraw reports whether no empty cell remains. Win takes precedence:
// callers must check CheckWinner first.
func CheckDraw(board *entity.Board) bool {
	for r := range board {
		for c := range board[r] {
			if board[r][c] == entity.CellEmpty {
				return false
			}
		}
	}

	return true
}

// ValidMoves returns every empty cell in row-major order. The list is
// recomputed on every call.
func ValidMoves(board *entity.Board) []Coord {
	moves := make([]Coord, 0, entity.BoardSize*entity.BoardSize)
	for r := range board {
		for c := range board[r] {
			if board[r][c] == entity.CellEmpty {
				moves = append(moves, Coord{Row: r, Col: c})
			}
		}
	}

	return moves
}
