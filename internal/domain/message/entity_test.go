package message

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMessagePredicates(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	msg := Message{SenderID: a, ReceiverID: b, Text: "hi"}

	assert.True(t, msg.HasContent())
	assert.True(t, msg.IsParticipant(a))
	assert.True(t, msg.IsParticipant(b))
	assert.False(t, msg.IsParticipant(c))

	assert.True(t, msg.Between(a, b))
	assert.True(t, msg.Between(b, a))
	assert.False(t, msg.Between(a, c))

	assert.False(t, Message{Text: "   "}.HasContent())
	assert.True(t, Message{Image: "https://img/x.png"}.HasContent())
}
