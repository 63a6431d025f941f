package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gomokuhub/gomoku-backend/internal/entity"
)

var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int64, error)
}

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	sessionBlob, err := session.Serialize()
	if err != nil {
		return fmt.Errorf("could not serialize session: %w", err)
	}

	sessionKey := sessionKeyPrefix + session.ID
	if err = that.client.Set(ctx, sessionKey, sessionBlob, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

// GetByID loads and validates a stored session. Malformed blobs surface as
// apperror.ErrCorruptState via Deserialize; the caller's session state is
// never partially overwritten.
func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	sessionKey := sessionKeyPrefix + id

	response, err := that.client.Get(ctx, sessionKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}

	var existingSession entity.Session
	if err = existingSession.Deserialize([]byte(response)); err != nil {
		return nil, fmt.Errorf("failed to deserialize session: %w", err)
	}

	return &existingSession, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	sessionKey := sessionKeyPrefix + id

	if err := that.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session by ID: %w", err)
	}

	return nil
}

// CountActive scans the keyspace for live sessions. Expired sessions drop
// out via TTL, so the count reflects games touched within the TTL window.
func (that *dbSession) CountActive(ctx context.Context) (int64, error) {
	var count int64
	var cursor uint64

	for {
		keys, next, err := that.client.Scan(ctx, cursor, sessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to scan sessions: %w", err)
		}

		count += int64(len(keys))
		cursor = next

		if cursor == 0 {
			return count, nil
		}
	}
}
