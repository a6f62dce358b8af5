package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a directory entry. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID   `json:"_id"`
	Email        string      `json:"email"`
	FullName     string      `json:"fullName"`
	ProfilePic   string      `json:"profilePic"`
	PasswordHash string      `json:"-"`
	Contacts     []uuid.UUID `json:"contacts"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Public returns a copy with the credential field cleared.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// PrepareCreate fills the id and timestamps a new record is missing.
func (u *User) PrepareCreate(now time.Time) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
}
