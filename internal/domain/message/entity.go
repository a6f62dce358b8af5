package message

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two users.
type Message struct {
	ID         uuid.UUID `json:"_id"`
	SenderID   uuid.UUID `json:"senderId"`
	ReceiverID uuid.UUID `json:"receiverId"`
	Text       string    `json:"text,omitempty"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// HasContent reports whether the message carries text or an image.
func (m Message) HasContent() bool {
	return strings.TrimSpace(m.Text) != "" || m.Image != ""
}

// IsParticipant reports whether userID sent or received the message.
func (m Message) IsParticipant(userID uuid.UUID) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// Between reports whether the message belongs to the conversation of a and b,
// in either direction.
func (m Message) Between(a, b uuid.UUID) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}
