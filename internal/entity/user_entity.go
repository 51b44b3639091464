package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a clinician account. Patient records are owned by a User.
type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
