package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gomokuhub/gomoku-backend/internal/entity"
)

type ArchiveRepository interface {
	Save(ctx context.Context, record *entity.GameRecord) error
	ListRecent(ctx context.Context, limit int) ([]entity.GameRecord, error)
}

type gameArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &gameArchive{
		conn: conn,
	}
}

func (that *gameArchive) Save(ctx context.Context, record *entity.GameRecord) error {
	query := `INSERT INTO finished_games (session_id, winner, moves, finished_at) VALUES (?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, record.SessionID, string(record.Winner), record.Moves, record.FinishedAt)
	if err != nil {
		return fmt.Errorf("can't save game record: %w", err)
	}

	return nil
}

func (that *gameArchive) ListRecent(ctx context.Context, limit int) ([]entity.GameRecord, error) {
	query := `SELECT session_id, winner, moves, finished_at FROM finished_games ORDER BY finished_at DESC LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("can't list game records: %w", err)
	}
	defer rows.Close()

	var records []entity.GameRecord

	for rows.Next() {
		var record entity.GameRecord
		var winner string

		if err = rows.Scan(&record.SessionID, &winner, &record.Moves, &record.FinishedAt); err != nil {
			return nil, fmt.Errorf("can't scan game record: %w", err)
		}

		record.Winner = entity.Cell(winner)
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read game records: %w", err)
	}

	return records, nil
}
