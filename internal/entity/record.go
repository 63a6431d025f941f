package entity

import "time"

// GameRecord is the archived summary of a finished game.
type GameRecord struct {
	SessionID  string    `json:"session_id"`
	Winner     Cell      `json:"winner"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewGameRecord summarizes a finished session for the archive.
func NewGameRecord(session *Session) *GameRecord {
	return &GameRecord{
		SessionID:  session.ID,
		Winner:     session.Winner,
		Moves:      len(session.History),
		FinishedAt: time.Now().UTC(),
	}
}
