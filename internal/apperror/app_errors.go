package apperror

import "errors"

var (
	ErrInvalidMove   = errors.New("invalid move")
	ErrGameOver      = errors.New("game is already over")
	ErrNothingToUndo = errors.New("no moves to undo")
	ErrCorruptState  = errors.New("corrupt session state")
)
