package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/types"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Resume is a stored resume upload with its analyzed profile
type Resume struct {
	ID        uuid.UUID            `json:"id"`
	UserID    uuid.UUID            `json:"user_id"`
	Filename  string               `json:"filename,omitempty"`
	RawText   string               `json:"-"`
	Profile   *types.ResumeProfile `json:"profile"`
	CreatedAt time.Time            `json:"created_at"`
}
