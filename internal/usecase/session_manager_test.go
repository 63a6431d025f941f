package usecase

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomokuhub/gomoku-backend/internal/apperror"
	"github.com/gomokuhub/gomoku-backend/internal/entity"
	"github.com/gomokuhub/gomoku-backend/internal/repository"
	"github.com/gomokuhub/gomoku-backend/internal/service"
)

// fakeSessionRepo keeps sessions in a map, snapshotting on both store and
// load so the manager never shares state with the "storage".
type fakeSessionRepo struct {
	sessions map[string]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (that *fakeSessionRepo) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.sessions[session.ID] = session.Snapshot()
	return nil
}

func (that *fakeSessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	session, ok := that.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

func (that *fakeSessionRepo) DeleteByID(_ context.Context, id string) error {
	delete(that.sessions, id)
	return nil
}

func (that *fakeSessionRepo) CountActive(_ context.Context) (int64, error) {
	return int64(len(that.sessions)), nil
}

type fakeArchiveRepo struct {
	records []*entity.GameRecord
}

func (that *fakeArchiveRepo) Save(_ context.Context, record *entity.GameRecord) error {
	that.records = append(that.records, record)
	return nil
}

func newManager(t *testing.T) (*SessionManager, *fakeSessionRepo, *fakeArchiveRepo) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	sessionRepo := newFakeSessionRepo()
	archiveRepo := &fakeArchiveRepo{}

	return NewSessionManager(logger, sessionRepo, archiveRepo, service.NewHintService()), sessionRepo, archiveRepo
}

func TestSessionManager_GetOrCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a new session when the id is empty", func(t *testing.T) {
		// Given: an empty store
		manager, sessionRepo, _ := newManager(t)

		// When: asking for a session without an id
		session, err := manager.GetOrCreateSession(ctx, "")

		// Then: a fresh game is created and persisted under a new id
		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, entity.CellBlack, session.Turn)
		assert.Contains(t, sessionRepo.sessions, session.ID)
	})

	t.Run("Returns the stored session for a known id", func(t *testing.T) {
		manager, _, _ := newManager(t)
		created, err := manager.GetOrCreateSession(ctx, "game-1")
		require.NoError(t, err)

		loaded, err := manager.GetOrCreateSession(ctx, "game-1")

		require.NoError(t, err)
		assert.Equal(t, created.ID, loaded.ID)
	})

	t.Run("Recreates a fresh session for a stale id", func(t *testing.T) {
		// Given: a store that never saw this id
		manager, sessionRepo, _ := newManager(t)

		// When: a browser returns with it anyway
		session, err := manager.GetOrCreateSession(ctx, "stale-id")

		// Then: a new game starts under the same id
		require.NoError(t, err)
		assert.Equal(t, "stale-id", session.ID)
		assert.Contains(t, sessionRepo.sessions, "stale-id")
	})
}

func TestSessionManager_PlacePiece(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays a move and persists the updated session", func(t *testing.T) {
		// Given: a fresh game
		manager, sessionRepo, _ := newManager(t)
		_, err := manager.GetOrCreateSession(ctx, "game-1")
		require.NoError(t, err)

		// When: black plays the center
		session, err := manager.PlacePiece(ctx, "game-1", 7, 7)

		// Then: the returned and the stored session both carry the stone
		require.NoError(t, err)
		assert.Equal(t, entity.CellBlack, session.Board[7][7])
		assert.Equal(t, entity.CellWhite, session.Turn)

		stored := sessionRepo.sessions["game-1"]
		assert.Equal(t, entity.CellBlack, stored.Board[7][7])
		require.Len(t, stored.History, 1)
	})

	t.Run("Propagates invalid moves without persisting anything", func(t *testing.T) {
		manager, sessionRepo, _ := newManager(t)
		_, err := manager.GetOrCreateSession(ctx, "game-1")
		require.NoError(t, err)

		_, err = manager.PlacePiece(ctx, "game-1", 99, 0)

		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Empty(t, sessionRepo.sessions["game-1"].History)
	})

	t.Run("Fails for an unknown session", func(t *testing.T) {
		manager, _, _ := newManager(t)

		_, err := manager.PlacePiece(ctx, "missing", 7, 7)

		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})

	t.Run("Archives the game when the move wins it", func(t *testing.T) {
		// Given: black is one stone away from five in a row
		manager, _, archiveRepo := newManager(t)
		_, err := manager.GetOrCreateSession(ctx, "game-1")
		require.NoError(t, err)

		for col := 5; col <= 8; col++ {
			_, err = manager.PlacePiece(ctx, "game-1", 7, col)
			require.NoError(t, err)
			_, err = manager.PlacePiece(ctx, "game-1", 8, col)
			require.NoError(t, err)
		}

		// When: black completes the line
		session, err := manager.PlacePiece(ctx, "game-1", 7, 9)

		// Then: the game is won and summarized into the archive
		require.NoError(t, err)
		assert.True(t, session.IsWon())
		assert.Equal(t, entity.CellBlack, session.Winner)

		require.Len(t, archiveRepo.records, 1)
		record := archiveRepo.records[0]
		assert.Equal(t, "game-1", record.SessionID)
		assert.Equal(t, entity.CellBlack, record.Winner)
		assert.Equal(t, 9, record.Moves)
	})

	t.Run("Rejects moves on a finished game", func(t *testing.T) {
		manager, _, _ := newManager(t)
		winSession(ctx, t, manager, "game-1")

		_, err := manager.PlacePiece(ctx, "game-1", 0, 0)

		assert.ErrorIs(t, err, apperror.ErrGameOver)
	})
}

func TestSessionManager_Undo(t *testing.T) {
	ctx := context.Background()

	t.Run("Takes back the last move and persists the rollback", func(t *testing.T) {
		// Given: two moves played
		manager, sessionRepo, _ := newManager(t)
		_, err := manager.GetOrCreateSession(ctx, "game-1")
		require.NoError(t, err)
		_, err = manager.PlacePiece(ctx, "game-1", 7, 7)
		require.NoError(t, err)
		_, err = manager.PlacePiece(ctx, "game-1", 8, 8)
		require.NoError(t, err)

		// When: undoing
		session, err := manager.Undo(ctx, "game-1")

		// Then: white's stone is gone, it is white's turn, and storage agrees
		require.NoError(t, err)
		assert.Equal(t, entity.CellEmpty, session.Board[8][8])
		assert.Equal(t, entity.CellWhite, session.Turn)
		assert.Len(t, sessionRepo.sessions["game-1"].History, 1)
	})

	t.Run("Fails when nothing was played", func(t *testing.T) {
		manager, _, _ := newManager(t)
		_, err := manager.GetOrCreateSession(ctx, "game-1")
		require.NoError(t, err)

		_, err = manager.Undo(ctx, "game-1")

		assert.ErrorIs(t, err, apperror.ErrNothingToUndo)
	})

	t.Run("Rejects undo on a finished game", func(t *testing.T) {
		manager, sessionRepo, _ := newManager(t)
		winSession(ctx, t, manager, "game-1")
		before := sessionRepo.sessions["game-1"].Snapshot()

		_, err := manager.Undo(ctx, "game-1")

		require.ErrorIs(t, err, apperror.ErrGameOver)
		assert.Equal(t, before, sessionRepo.sessions["game-1"].Snapshot())
	})
}

func TestSessionManager_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts the game over under the same id", func(t *testing.T) {
		// Given: a finished game
		manager, _, _ := newManager(t)
		winSession(ctx, t, manager, "game-1")

		// When: resetting
		session, err := manager.Reset(ctx, "game-1")

		// Then: the session is playable again from scratch
		require.NoError(t, err)
		assert.Equal(t, "game-1", session.ID)
		assert.Equal(t, entity.Board{}, session.Board)
		assert.Empty(t, session.History)
		assert.Equal(t, entity.CellBlack, session.Turn)
		assert.Equal(t, entity.StatusPlaying, session.Status)

		_, err = manager.PlacePiece(ctx, "game-1", 7, 7)
		require.NoError(t, err)
	})
}

func TestSessionManager_SuggestMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Suggests a playable empty cell", func(t *testing.T) {
		manager, _, _ := newManager(t)
		_, err := manager.GetOrCreateSession(ctx, "game-1")
		require.NoError(t, err)
		_, err = manager.PlacePiece(ctx, "game-1", 0, 0)
		require.NoError(t, err)

		hint, err := manager.SuggestMove(ctx, "game-1")

		require.NoError(t, err)
		assert.NotEqual(t, [2]int{0, 0}, [2]int{hint.Row, hint.Col})

		_, err = manager.PlacePiece(ctx, "game-1", hint.Row, hint.Col)
		require.NoError(t, err)
	})

	t.Run("Fails on a finished game", func(t *testing.T) {
		manager, _, _ := newManager(t)
		winSession(ctx, t, manager, "game-1")

		_, err := manager.SuggestMove(ctx, "game-1")

		assert.ErrorIs(t, err, apperror.ErrGameOver)
	})
}

func TestSessionManager_CountActiveSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("Counts stored sessions", func(t *testing.T) {
		manager, _, _ := newManager(t)
		_, err := manager.GetOrCreateSession(ctx, "")
		require.NoError(t, err)
		_, err = manager.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		count, err := manager.CountActiveSessions(ctx)

		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})
}

// winSession plays a full horizontal win for black through the manager.
func winSession(ctx context.Context, t *testing.T, manager *SessionManager, id string) {
	t.Helper()

	_, err := manager.GetOrCreateSession(ctx, id)
	require.NoError(t, err)

	for col := 5; col <= 8; col++ {
		_, err = manager.PlacePiece(ctx, id, 7, col)
		require.NoError(t, err)
		_, err = manager.PlacePiece(ctx, id, 8, col)
		require.NoError(t, err)
	}

	session, err := manager.PlacePiece(ctx, id, 7, 9)
	require.NoError(t, err)
	require.True(t, session.IsWon())
}
