package pkg

import "github.com/google/uuid"

// GenerateSessionID mints a new opaque session identifier.
func GenerateSessionID() string {
	return uuid.NewString()
}
