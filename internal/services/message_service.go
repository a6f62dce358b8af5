package services

import (
	"context"
	"fmt"

	"direct-chat/internal/commands"
	"direct-chat/internal/domain/message"
	"direct-chat/internal/realtime"
	"direct-chat/internal/repository"
	chat_errors "direct-chat/pkg/errors"
	"direct-chat/pkg/logger"

	"github.com/google/uuid"
)

//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_image_uploader.go -package=mocks

// ImageUploader stores an encoded image with the hosting service and returns
// its canonical URL.
type ImageUploader interface {
	Upload(ctx context.Context, payload string) (string, error)
}

type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	uploader    ImageUploader
	registry    realtime.Registry
	emitter     realtime.Emitter
	logger      *logger.Logger
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	uploader ImageUploader,
	registry realtime.Registry,
	emitter realtime.Emitter,
	l *logger.Logger,
) *MessageService {
	if l == nil {
		l = logger.NewNop()
	}
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		uploader:    uploader,
		registry:    registry,
		emitter:     emitter,
		logger:      l,
	}
}

// GetMessages returns the conversation between the caller and otherID in
// store order.
func (s *MessageService) GetMessages(ctx context.Context, callerID, otherID uuid.UUID) ([]message.Message, error) {
	messages, err := s.messageRepo.GetConversation(ctx, callerID, otherID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if messages == nil {
		messages = []message.Message{}
	}
	return messages, nil
}

// SendMessage checks the receiver exists, uploads the image if any, persists
// the message and then tries to push it to the receiver. The push never fails
// the send.
func (s *MessageService) SendMessage(ctx context.Context, cmd commands.SendMessageCommand) (message.Message, error) {
	if err := cmd.Validate(); err != nil {
		return message.Message{}, err
	}

	if _, err := s.userRepo.GetUserByID(ctx, cmd.ReceiverID); err != nil {
		return message.Message{}, fmt.Errorf("load receiver %s: %w", cmd.ReceiverID, err)
	}

	msg := message.Message{
		SenderID:   cmd.SenderID,
		ReceiverID: cmd.ReceiverID,
		Text:       cmd.Text,
	}

	if cmd.Image != "" {
		if s.uploader == nil {
			return message.Message{}, fmt.Errorf("upload image: no uploader configured")
		}
		url, err := s.uploader.Upload(ctx, cmd.Image)
		if err != nil {
			return message.Message{}, fmt.Errorf("upload image: %w", err)
		}
		msg.Image = url
	}

	if err := s.messageRepo.Create(ctx, &msg); err != nil {
		return message.Message{}, fmt.Errorf("save message: %w", err)
	}

	s.notifyReceiver(ctx, msg)
	return msg, nil
}

func (s *MessageService) notifyReceiver(ctx context.Context, msg message.Message) {
	if s.registry == nil || s.emitter == nil {
		return
	}
	log := s.logger.With(ctx)

	connID, online, err := s.registry.Lookup(ctx, msg.ReceiverID)
	if err != nil {
		log.Warnf("lookup connection for %s: %v", msg.ReceiverID, err)
		return
	}
	if !online {
		return
	}
	if err := s.emitter.Emit(ctx, connID, realtime.EventNewMessage, msg); err != nil {
		log.Warnf("push %s to %s: %v", realtime.EventNewMessage, msg.ReceiverID, err)
	}
}

// DeleteMessage removes the message for both parties. Only the sender or the
// receiver may delete it.
func (s *MessageService) DeleteMessage(ctx context.Context, cmd commands.DeleteMessageCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	msg, err := s.messageRepo.GetByID(ctx, cmd.MessageID)
	if err != nil {
		return fmt.Errorf("load message %s: %w", cmd.MessageID, err)
	}
	if !msg.IsParticipant(cmd.UserID) {
		return fmt.Errorf("delete message %s: %w", cmd.MessageID, chat_errors.ErrForbidden)
	}
	if err := s.messageRepo.HardDelete(ctx, cmd.MessageID); err != nil {
		return fmt.Errorf("delete message %s: %w", cmd.MessageID, err)
	}
	return nil
}
