package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomokuhub/gomoku-backend/internal/apperror"
)

// Serialize captures the full session state as a JSON blob. The blob
// round-trips through Deserialize losslessly.
func (that *Session) Serialize() ([]byte, error) {
	that.SavedAt = time.Now().UTC()

	data, err := json.Marshal(that)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	return data, nil
}

// requiredSessionFields are the keys Serialize always emits. A blob missing
// one of them cannot be a legitimate save.
var requiredSessionFields = []string{"board", "moveHistory", "currentPlayer", "gameStatus"}

// Deserialize replaces the session state with the decoded blob. On any
// failure, including absent required fields, it returns ErrCorruptState and
// leaves the session untouched.
func (that *Session) Deserialize(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %s", apperror.ErrCorruptState, err)
	}

	for _, field := range requiredSessionFields {
		if _, ok := fields[field]; !ok {
			return fmt.Errorf("%w: missing field %q", apperror.ErrCorruptState, field)
		}
	}

	var decoded Session

	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("%w: %s", apperror.ErrCorruptState, err)
	}

	if err := decoded.Validate(); err != nil {
		return fmt.Errorf("%w: %s", apperror.ErrCorruptState, err)
	}

	*that = decoded

	return nil
}
