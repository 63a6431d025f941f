package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gomokuhub/gomoku-backend/internal/entity"
	"github.com/gomokuhub/gomoku-backend/internal/gomoku"
	"github.com/gomokuhub/gomoku-backend/internal/pkg"
	"github.com/gomokuhub/gomoku-backend/internal/repository"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int64, error)
}

type archiveRepo interface {
	Save(ctx context.Context, record *entity.GameRecord) error
}

type hintService interface {
	Suggest(session *entity.Session) (gomoku.Coord, error)
}

// SessionManager is the command surface the presentation layer talks to.
// Every operation loads the session, mutates it in one synchronous step and
// stores it back, so persistence always observes a consistent snapshot.
type SessionManager struct {
	logger *slog.Logger

	sessionRepo sessionRepo
	archiveRepo archiveRepo
	hints       hintService
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo, archiveRepo archiveRepo, hints hintService) *SessionManager {
	return &SessionManager{
		logger: logger,

		sessionRepo: sessionRepo,
		archiveRepo: archiveRepo,
		hints:       hints,
	}
}

// GetOrCreateSession returns the stored session, or starts a fresh game when
// the id is empty or no longer in storage (a browser returning with a stale
// id gets a new game rather than an error).
func (that *SessionManager) GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		return that.createSession(ctx, pkg.GenerateSessionID())
	}

	session, err := that.sessionRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return that.createSession(ctx, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return session, nil
}

// PlacePiece plays the current player's stone and persists the result.
// Finished games are additionally summarized into the archive.
func (that *SessionManager) PlacePiece(ctx context.Context, id string, row, col int) (*entity.Session, error) {
	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = gomoku.MakeMove(session, row, col); err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	if !session.IsPlaying() {
		that.archiveFinished(ctx, session)
	}

	return session, nil
}

// Undo takes back the most recent move. It fails once the game has ended.
func (that *SessionManager) Undo(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = gomoku.Undo(session); err != nil {
		return nil, fmt.Errorf("failed to undo move: %w", err)
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Reset starts the game over under the same session id.
func (that *SessionManager) Reset(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Reset()

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// GetSession returns a snapshot of the stored session.
func (that *SessionManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return session.Snapshot(), nil
}

// SuggestMove asks the hint service for a playable cell.
func (that *SessionManager) SuggestMove(ctx context.Context, id string) (gomoku.Coord, error) {
	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return gomoku.Coord{}, err
	}

	move, err := that.hints.Suggest(session)
	if err != nil {
		return gomoku.Coord{}, fmt.Errorf("failed to suggest move: %w", err)
	}

	return move, nil
}

// CountActiveSessions reports how many sessions are currently in hot storage.
func (that *SessionManager) CountActiveSessions(ctx context.Context) (int64, error) {
	count, err := that.sessionRepo.CountActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}

func (that *SessionManager) createSession(ctx context.Context, id string) (*entity.Session, error) {
	session := entity.NewSession(id)

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (that *SessionManager) getSessionByID(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *SessionManager) updateSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

// archiveFinished records a finished game. The session itself stays in hot
// storage so the board can still be rendered; TTL expiry cleans it up.
func (that *SessionManager) archiveFinished(ctx context.Context, session *entity.Session) {
	log := that.logger.With("method", "archiveFinished")

	if err := that.archiveRepo.Save(ctx, entity.NewGameRecord(session)); err != nil {
		log.Error("failed to archive finished game", "sessionID", session.ID, "error", err)
		return
	}

	log.Info("game archived", "sessionID", session.ID, "winner", session.Winner)
}
