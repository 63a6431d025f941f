package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gomokuhub/gomoku-backend/internal/entity"
	"github.com/gomokuhub/gomoku-backend/internal/gomoku"
)

type sessionUseCase interface {
	GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)

	PlacePiece(ctx context.Context, id string, row, col int) (*entity.Session, error)
	Undo(ctx context.Context, id string) (*entity.Session, error)
	Reset(ctx context.Context, id string) (*entity.Session, error)

	SuggestMove(ctx context.Context, id string) (gomoku.Coord, error)
}

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase
}

func New(logger *slog.Logger, sessions sessionUseCase) *Server {
	return &Server{
		logger:   logger,
		sessions: sessions,
	}
}

// Start - starts the HTTP server.
func (that *Server) Start(port string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", that.handlePing)
	mux.HandleFunc("POST /api/session", that.handleCreateSession)
	mux.HandleFunc("GET /api/session/{id}", that.handleGetSession)
	mux.HandleFunc("POST /api/session/{id}/move", that.handleMove)
	mux.HandleFunc("POST /api/session/{id}/undo", that.handleUndo)
	mux.HandleFunc("POST /api/session/{id}/reset", that.handleReset)
	mux.HandleFunc("GET /api/session/{id}/hint", that.handleHint)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
