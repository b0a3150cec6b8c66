package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity snapshot read and created through the user
// repository. The core never mutates it.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
