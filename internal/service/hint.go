package service

import (
	"errors"
	"math"

	"github.com/gomokuhub/gomoku-backend/internal/entity"
	"github.com/gomokuhub/gomoku-backend/internal/gomoku"
)

var ErrNoAvailableMoves = errors.New("no available moves")

type HintService interface {
	Suggest(session *entity.Session) (gomoku.Coord, error)
}

type hintService struct{}

func NewHintService() HintService {
	return &hintService{}
}

// Suggest picks the highest-scoring empty cell for the current player.
// Since the evaluation placeholder rates all positions equally, the first
// valid move wins the tie.
func (that *hintService) Suggest(session *entity.Session) (gomoku.Coord, error) {
	if err := session.ConfirmPlaying(); err != nil {
		return gomoku.Coord{}, err
	}

	moves := gomoku.ValidMoves(&session.Board)
	if len(moves) == 0 {
		return gomoku.Coord{}, ErrNoAvailableMoves
	}

	best := moves[0]
	bestScore := math.MinInt

	for _, move := range moves {
		board := session.Board
		board[move.Row][move.Col] = session.Turn

		if score := gomoku.EvaluatePosition(&board); score > bestScore {
			bestScore = score
			best = move
		}
	}

	return best, nil
}
