package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gomokuhub/gomoku-backend/internal/apperror"
	"github.com/gomokuhub/gomoku-backend/internal/entity"
	"github.com/gomokuhub/gomoku-backend/internal/gomoku"
	"github.com/gomokuhub/gomoku-backend/internal/repository"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, "invalid payload")
	}

	session, err := that.sessions.GetOrCreateSession(ctx, payloadReq.SessionID)
	if err != nil {
		log.Error("failed to get or create session", "error", err)
		return that.sendErrorResponse(bufrw, msg.Action, "failed to get or create session")
	}

	log.Info("session connected", "sessionID", session.ID)

	return that.sendSession(bufrw, msg.Action, session)
}

func (that *Server) handleState(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, "invalid payload")
	}

	session, err := that.sessions.GetSession(ctx, payloadReq.SessionID)
	if err != nil {
		return that.sendDomainError(bufrw, msg.Action, err)
	}

	return that.sendSession(bufrw, msg.Action, session)
}

func (that *Server) handleMove(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, "invalid payload")
	}

	if payloadReq.Cell != "" {
		row, col, parseErr := gomoku.ParseCoord(payloadReq.Cell)
		if parseErr != nil {
			return that.sendDomainError(bufrw, msg.Action, parseErr)
		}
		payloadReq.Row, payloadReq.Col = row, col
	}

	session, err := that.sessions.PlacePiece(ctx, payloadReq.SessionID, payloadReq.Row, payloadReq.Col)
	if err != nil {
		return that.sendDomainError(bufrw, msg.Action, err)
	}

	return that.sendSession(bufrw, msg.Action, session)
}

func (that *Server) handleUndo(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, "invalid payload")
	}

	session, err := that.sessions.Undo(ctx, payloadReq.SessionID)
	if err != nil {
		return that.sendDomainError(bufrw, msg.Action, err)
	}

	return that.sendSession(bufrw, msg.Action, session)
}

func (that *Server) handleReset(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, "invalid payload")
	}

	session, err := that.sessions.Reset(ctx, payloadReq.SessionID)
	if err != nil {
		return that.sendDomainError(bufrw, msg.Action, err)
	}

	return that.sendSession(bufrw, msg.Action, session)
}

func (that *Server) handleHint(ctx context.Context, msg *Message, bufrw *bufio.ReadWriter) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(bufrw, msg.Action, "invalid payload")
	}

	hint, err := that.sessions.SuggestMove(ctx, payloadReq.SessionID)
	if err != nil {
		return that.sendDomainError(bufrw, msg.Action, err)
	}

	cell, err := gomoku.FormatCoord(hint.Row, hint.Col)
	if err != nil {
		return that.sendDomainError(bufrw, msg.Action, err)
	}

	return that.sendMessage(bufrw, msg.Action, ResponsePayload{Hint: &HintPayload{Row: hint.Row, Col: hint.Col, Cell: cell}})
}

func (that *Server) sendSession(bufrw *bufio.ReadWriter, action string, session *entity.Session) error {
	return that.sendMessage(bufrw, action, ResponsePayload{Session: session})
}

// sendDomainError reports recoverable rule violations back to the client and
// keeps the connection open; unexpected failures are logged too.
func (that *Server) sendDomainError(bufrw *bufio.ReadWriter, action string, err error) error {
	log := that.logger.With("method", "sendDomainError")

	switch {
	case errors.Is(err, apperror.ErrInvalidMove),
		errors.Is(err, apperror.ErrGameOver),
		errors.Is(err, apperror.ErrNothingToUndo),
		errors.Is(err, gomoku.ErrInvalidNotation),
		errors.Is(err, repository.ErrSessionNotFound):
	default:
		log.Error("command failed", "action", action, "error", err)
	}

	return that.sendErrorResponse(bufrw, action, err.Error())
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}
