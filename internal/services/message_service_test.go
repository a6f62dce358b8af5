package services

import (
	"context"
	"errors"
	"testing"

	"direct-chat/internal/commands"
	"direct-chat/internal/domain/message"
	"direct-chat/internal/domain/user"
	"direct-chat/internal/mocks"
	"direct-chat/internal/realtime"
	"direct-chat/internal/repository"
	chat_errors "direct-chat/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type messageFixture struct {
	svc      *MessageService
	repo     *repository.MemoryMessageRepository
	users    *repository.MemoryUserRepository
	uploader *mocks.MockImageUploader
	registry *realtime.MemoryRegistry
	emitter  *fakeEmitter
}

func newMessageFixture(t *testing.T) *messageFixture {
	ctrl := gomock.NewController(t)
	f := &messageFixture{
		repo:     repository.NewMemoryMessageRepository(),
		users:    repository.NewMemoryUserRepository(),
		uploader: mocks.NewMockImageUploader(ctrl),
		registry: realtime.NewMemoryRegistry(),
		emitter:  &fakeEmitter{},
	}
	f.svc = NewMessageService(f.repo, f.users, f.uploader, f.registry, f.emitter, nil)
	return f
}

func (f *messageFixture) newUser(t *testing.T) uuid.UUID {
	t.Helper()
	u := &user.User{FullName: "user"}
	u.ID = uuid.New()
	u.Email = u.ID.String() + "@example.com"
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

func TestMessageService_SendTextOnly(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	a, b := f.newUser(t), f.newUser(t)

	// no EXPECT on the uploader: any call fails the test
	msg, err := f.svc.SendMessage(ctx, commands.SendMessageCommand{SenderID: a, ReceiverID: b, Text: "hi"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, msg.ID)
	assert.Equal(t, a, msg.SenderID)
	assert.Equal(t, b, msg.ReceiverID)
	assert.Equal(t, "hi", msg.Text)
	assert.Empty(t, msg.Image)

	stored, err := f.repo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Image)

	// receiver offline: nothing pushed
	assert.Empty(t, f.emitter.Calls())
}

func TestMessageService_SendWithImage(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	a, b := f.newUser(t), f.newUser(t)

	f.uploader.EXPECT().
		Upload(gomock.Any(), "data:image/png;base64,iVBORw0KGgo=").
		Return("https://cdn.example.com/chat-images/x.png", nil).
		Times(1)

	msg, err := f.svc.SendMessage(ctx, commands.SendMessageCommand{
		SenderID:   a,
		ReceiverID: b,
		Image:      "data:image/png;base64,iVBORw0KGgo=",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/chat-images/x.png", msg.Image)

	stored, err := f.repo.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/chat-images/x.png", stored.Image)
}

func TestMessageService_SendUploadFailureSavesNothing(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	a, b := f.newUser(t), f.newUser(t)

	f.uploader.EXPECT().Upload(gomock.Any(), gomock.Any()).Return("", errors.New("host unavailable"))

	_, err := f.svc.SendMessage(ctx, commands.SendMessageCommand{SenderID: a, ReceiverID: b, Text: "look", Image: "aGk="})
	require.Error(t, err)
	assert.Equal(t, 500, HTTPStatus(err))

	conv, err := f.repo.GetConversation(ctx, a, b)
	require.NoError(t, err)
	assert.Empty(t, conv)
}

func TestMessageService_SendPersistFailureKeepsUpload(t *testing.T) {
	f := newMessageFixture(t)
	repo := &failingMessageRepo{MessageRepository: f.repo, failCreate: true}
	svc := NewMessageService(repo, f.users, f.uploader, f.registry, f.emitter, nil)

	f.uploader.EXPECT().Upload(gomock.Any(), gomock.Any()).Return("https://cdn/x.png", nil).Times(1)

	_, err := svc.SendMessage(context.Background(), commands.SendMessageCommand{
		SenderID: f.newUser(t), ReceiverID: f.newUser(t), Image: "aGk=",
	})
	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 500, HTTPStatus(err))
	assert.Empty(t, f.emitter.Calls())
}

func TestMessageService_SendToUnknownReceiver(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	a, ghost := f.newUser(t), uuid.New()

	// no EXPECT on the uploader: the image must not be uploaded
	_, err := f.svc.SendMessage(ctx, commands.SendMessageCommand{SenderID: a, ReceiverID: ghost, Text: "hi", Image: "aGk="})
	assert.ErrorIs(t, err, chat_errors.ErrNotFound)
	assert.Equal(t, 404, HTTPStatus(err))

	conv, err := f.repo.GetConversation(ctx, a, ghost)
	require.NoError(t, err)
	assert.Empty(t, conv)
}

func TestMessageService_SendRejectsEmptyMessage(t *testing.T) {
	f := newMessageFixture(t)
	_, err := f.svc.SendMessage(context.Background(), commands.SendMessageCommand{SenderID: uuid.New(), ReceiverID: uuid.New()})
	assert.ErrorIs(t, err, chat_errors.ErrInvalidInput)
}

func TestMessageService_SendPushesToOnlineReceiver(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	a, b := f.newUser(t), f.newUser(t)
	require.NoError(t, f.registry.Register(ctx, b, "conn-b"))

	msg, err := f.svc.SendMessage(ctx, commands.SendMessageCommand{SenderID: a, ReceiverID: b, Text: "hi"})
	require.NoError(t, err)

	calls := f.emitter.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "conn-b", calls[0].connID)
	assert.Equal(t, realtime.EventNewMessage, calls[0].event)
	assert.Equal(t, msg, calls[0].payload)
}

func TestMessageService_PushFailureDoesNotFailSend(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	a, b := f.newUser(t), f.newUser(t)
	require.NoError(t, f.registry.Register(ctx, b, "conn-b"))
	f.emitter.err = chat_errors.ErrNotOnline

	msg, err := f.svc.SendMessage(ctx, commands.SendMessageCommand{SenderID: a, ReceiverID: b, Text: "hi"})
	require.NoError(t, err)

	_, err = f.repo.GetByID(ctx, msg.ID)
	assert.NoError(t, err)
}

func TestMessageService_GetMessagesIsSymmetric(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	a, b, c := f.newUser(t), f.newUser(t), f.newUser(t)

	for _, cmd := range []commands.SendMessageCommand{
		{SenderID: a, ReceiverID: b, Text: "1"},
		{SenderID: b, ReceiverID: a, Text: "2"},
		{SenderID: a, ReceiverID: c, Text: "3"},
		{SenderID: c, ReceiverID: b, Text: "4"},
	} {
		_, err := f.svc.SendMessage(ctx, cmd)
		require.NoError(t, err)
	}

	ab, err := f.svc.GetMessages(ctx, a, b)
	require.NoError(t, err)
	ba, err := f.svc.GetMessages(ctx, b, a)
	require.NoError(t, err)

	require.Len(t, ab, 2)
	assert.ElementsMatch(t, ab, ba)
	for _, m := range ab {
		assert.True(t, m.Between(a, b))
	}
}

func TestMessageService_DeleteByNonParticipant(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	a, b, stranger := f.newUser(t), f.newUser(t), uuid.New()

	msg, err := f.svc.SendMessage(ctx, commands.SendMessageCommand{SenderID: a, ReceiverID: b, Text: "hi"})
	require.NoError(t, err)

	err = f.svc.DeleteMessage(ctx, commands.DeleteMessageCommand{MessageID: msg.ID, UserID: stranger})
	assert.ErrorIs(t, err, chat_errors.ErrForbidden)
	assert.Equal(t, 403, HTTPStatus(err))

	_, err = f.repo.GetByID(ctx, msg.ID)
	assert.NoError(t, err)
}

func TestMessageService_DeleteByEitherParticipant(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	a, b := f.newUser(t), f.newUser(t)

	for _, deleter := range []uuid.UUID{a, b} {
		msg, err := f.svc.SendMessage(ctx, commands.SendMessageCommand{SenderID: a, ReceiverID: b, Text: "hi"})
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteMessage(ctx, commands.DeleteMessageCommand{MessageID: msg.ID, UserID: deleter}))

		conv, err := f.svc.GetMessages(ctx, a, b)
		require.NoError(t, err)
		for _, m := range conv {
			assert.NotEqual(t, msg.ID, m.ID)
		}
	}
}

func TestMessageService_DeleteMissing(t *testing.T) {
	f := newMessageFixture(t)
	err := f.svc.DeleteMessage(context.Background(), commands.DeleteMessageCommand{MessageID: uuid.New(), UserID: uuid.New()})
	assert.ErrorIs(t, err, chat_errors.ErrNotFound)
	assert.Equal(t, 404, HTTPStatus(err))
}

func TestMessageService_DeleteStoreFailure(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	a, b := f.newUser(t), f.newUser(t)
	stored := &message.Message{SenderID: a, ReceiverID: b, Text: "hi"}
	require.NoError(t, f.repo.Create(ctx, stored))

	svc := NewMessageService(&failingMessageRepo{MessageRepository: f.repo, failDelete: true}, f.users, f.uploader, f.registry, f.emitter, nil)
	err := svc.DeleteMessage(ctx, commands.DeleteMessageCommand{MessageID: stored.ID, UserID: a})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 500, HTTPStatus(err))
}
