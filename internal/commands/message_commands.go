package commands

import (
	"strings"

	chat_errors "direct-chat/pkg/errors"

	"github.com/google/uuid"
)

var (
	_ Command = SendMessageCommand{}
	_ Command = DeleteMessageCommand{}
)

type SendMessageCommand struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Text       string
	Image      string
}

func (SendMessageCommand) CommandType() string {
	return "message.send"
}

// Validate requires both parties and at least one of text or image.
func (c SendMessageCommand) Validate() error {
	if c.SenderID == uuid.Nil || c.ReceiverID == uuid.Nil {
		return chat_errors.ErrInvalidInput
	}
	if strings.TrimSpace(c.Text) == "" && c.Image == "" {
		return chat_errors.ErrInvalidInput
	}
	return nil
}

type DeleteMessageCommand struct {
	MessageID uuid.UUID
	UserID    uuid.UUID
}

func (DeleteMessageCommand) CommandType() string {
	return "message.delete"
}

func (c DeleteMessageCommand) Validate() error {
	if c.MessageID == uuid.Nil || c.UserID == uuid.Nil {
		return chat_errors.ErrInvalidInput
	}
	return nil
}
