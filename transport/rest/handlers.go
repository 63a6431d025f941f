package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gomokuhub/gomoku-backend/internal/apperror"
	"github.com/gomokuhub/gomoku-backend/internal/gomoku"
	"github.com/gomokuhub/gomoku-backend/internal/repository"
)

type createSessionRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// moveRequest addresses a cell either by row/col or by display notation
// ("H8"). Notation wins when both are present.
type moveRequest struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Cell string `json:"cell,omitempty"`
}

type hintResponse struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Cell string `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleCreateSession")

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := that.sessions.GetOrCreateSession(r.Context(), req.SessionID)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, log, http.StatusOK, session)
}

func (that *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleGetSession")

	session, err := that.sessions.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, log, http.StatusOK, session)
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleMove")

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Cell != "" {
		row, col, err := gomoku.ParseCoord(req.Cell)
		if err != nil {
			that.writeError(w, log, err)
			return
		}
		req.Row, req.Col = row, col
	}

	session, err := that.sessions.PlacePiece(r.Context(), r.PathValue("id"), req.Row, req.Col)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, log, http.StatusOK, session)
}

func (that *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleUndo")

	session, err := that.sessions.Undo(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, log, http.StatusOK, session)
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleReset")

	session, err := that.sessions.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, log, http.StatusOK, session)
}

func (that *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleHint")

	move, err := that.sessions.SuggestMove(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	cell, err := gomoku.FormatCoord(move.Row, move.Col)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	that.writeJSON(w, log, http.StatusOK, hintResponse{Row: move.Row, Col: move.Col, Cell: cell})
}

func (that *Server) writeJSON(w http.ResponseWriter, log *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors to HTTP statuses. Every failure is a
// reported result; the session state is left unchanged.
func (that *Server) writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrInvalidMove),
		errors.Is(err, apperror.ErrNothingToUndo),
		errors.Is(err, gomoku.ErrInvalidNotation):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameOver):
		status = http.StatusConflict
	case errors.Is(err, repository.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrCorruptState):
		log.Error("stored session is corrupt", "error", err)
	default:
		log.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encodeErr := json.NewEncoder(w).Encode(errorResponse{Error: err.Error()}); encodeErr != nil {
		log.Error("failed to encode error response", "error", encodeErr)
	}
}
