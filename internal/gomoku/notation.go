package gomoku

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gomokuhub/gomoku-backend/internal/entity"
)

var ErrInvalidNotation = errors.New("invalid coordinate notation")

// FormatCoord maps a board position to display notation: col 0-14 becomes
// letters A-O and row becomes 15-row, so (0,0) is "A15" and (14,14) is "O1".
func FormatCoord(row, col int) (string, error) {
	if !inRange(row, col) {
		return "", fmt.Errorf("%w: row %d, col %d", ErrInvalidNotation, row, col)
	}

	return fmt.Sprintf("%c%d", 'A'+rune(col), entity.BoardSize-row), nil
}

// ParseCoord is the exact inverse of FormatCoord.
func ParseCoord(notation string) (int, int, error) {
	if len(notation) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}

	letter := notation[0]
	if letter < 'A' || letter >= 'A'+entity.BoardSize {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}
	col := int(letter - 'A')

	digits := notation[1:]
	// Atoi alone would accept "015" and "+5", forms FormatCoord never emits
	if digits[0] < '1' || digits[0] > '9' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}

	number, err := strconv.Atoi(digits)
	if err != nil || number < 1 || number > entity.BoardSize {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidNotation, notation)
	}
	row := entity.BoardSize - number

	return row, col, nil
}
