package handler

import (
	"errors"
	"fmt"
	"net/http"

	"direct-chat/internal/commands"
	"direct-chat/internal/services"
	"direct-chat/internal/transport/httpdto"
	chat_errors "direct-chat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// List returns the conversation between the caller and :id.
func (h *MessageHandler) List(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewStatusErrorResponse(http.StatusUnauthorized))
		return
	}

	otherID, err := parseUUID(c.Param("id"))
	if err != nil {
		_ = c.Error(fmt.Errorf("user id %q: %w", c.Param("id"), chat_errors.ErrInvalidInput))
		return
	}

	messages, err := h.service.GetMessages(c.Request.Context(), userID, otherID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// Send stores a message from the caller to :id and answers 201 with it.
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewStatusErrorResponse(http.StatusUnauthorized))
		return
	}

	receiverID, err := parseUUID(c.Param("id"))
	if err != nil {
		_ = c.Error(fmt.Errorf("receiver id %q: %w", c.Param("id"), chat_errors.ErrInvalidInput))
		return
	}

	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), commands.SendMessageCommand{
		SenderID:   userID,
		ReceiverID: receiverID,
		Text:       req.Text,
		Image:      req.Image,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// Delete removes :messageId for both participants. An id that does not parse
// cannot exist, so it is reported as not found.
func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewStatusErrorResponse(http.StatusUnauthorized))
		return
	}

	messageID, err := parseUUID(c.Param("messageId"))
	if err != nil {
		_ = c.Error(fmt.Errorf("message id %q: %w", c.Param("messageId"), chat_errors.ErrNotFound))
		return
	}

	err = h.service.DeleteMessage(c.Request.Context(), commands.DeleteMessageCommand{
		MessageID: messageID,
		UserID:    userID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, httpdto.DeleteMessageResponse{Success: true, Message: "Message deleted"})
}

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}

func bindError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("request body: %w", chat_errors.ErrTooLarge)
	}
	return fmt.Errorf("request body: %w", chat_errors.ErrInvalidInput)
}
