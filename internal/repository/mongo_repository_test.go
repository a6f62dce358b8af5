package repository

import (
	"context"
	"testing"
	"time"

	"direct-chat/internal/domain/message"
	"direct-chat/internal/domain/user"
	chat_errors "direct-chat/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("get by id decodes contacts without password", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id, contact := uuid.New(), uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id.String()},
			{Key: "email", Value: "a@example.com"},
			{Key: "fullName", Value: "Alice"},
			{Key: "contacts", Value: bson.A{contact.String(), "not-a-uuid"}},
		}))

		u, err := repo.GetUserByID(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, id, u.ID)
		assert.Equal(mt, "Alice", u.FullName)
		assert.Equal(mt, []uuid.UUID{contact}, u.Contacts)
		assert.Empty(mt, u.PasswordHash)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := repo.GetUserByID(ctx, uuid.New())
		assert.ErrorIs(mt, err, chat_errors.ErrNotFound)
	})

	mt.Run("get users by ids", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		a, b := uuid.New(), uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: a.String()}, {Key: "fullName", Value: "A"}},
			bson.D{{Key: "_id", Value: b.String()}, {Key: "fullName", Value: "B"}},
		))

		users, err := repo.GetUsersByIDs(ctx, []uuid.UUID{a, b})
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, b, users[1].ID)
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(ctx, &user.User{Email: "a@example.com"})
		assert.ErrorIs(mt, err, chat_errors.ErrInvalidInput)
	})
}

func TestMongoMessageRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		repo := NewMongoMessageRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		m := &message.Message{SenderID: uuid.New(), ReceiverID: uuid.New(), Text: "hi"}
		require.NoError(mt, repo.Create(ctx, m))
		assert.NotEqual(mt, uuid.Nil, m.ID)
		assert.False(mt, m.CreatedAt.IsZero())
	})

	mt.Run("conversation decodes both directions", func(mt *mtest.T) {
		repo := NewMongoMessageRepository(mt.DB)
		a, b := uuid.New(), uuid.New()
		now := time.Now().UTC().Truncate(time.Millisecond)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.messages", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: uuid.NewString()},
				{Key: "senderId", Value: a.String()},
				{Key: "receiverId", Value: b.String()},
				{Key: "text", Value: "hi"},
				{Key: "createdAt", Value: now},
			},
			bson.D{
				{Key: "_id", Value: uuid.NewString()},
				{Key: "senderId", Value: b.String()},
				{Key: "receiverId", Value: a.String()},
				{Key: "image", Value: "https://img/x.png"},
				{Key: "createdAt", Value: now},
			},
		))

		messages, err := repo.GetConversation(ctx, a, b)
		require.NoError(mt, err)
		require.Len(mt, messages, 2)
		assert.Equal(mt, a, messages[0].SenderID)
		assert.Equal(mt, "https://img/x.png", messages[1].Image)
		assert.True(mt, messages[1].Between(a, b))
	})

	mt.Run("hard delete missing message", func(mt *mtest.T) {
		repo := NewMongoMessageRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, repo.HardDelete(ctx, uuid.New()), chat_errors.ErrNotFound)
	})

	mt.Run("hard delete existing message", func(mt *mtest.T) {
		repo := NewMongoMessageRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.HardDelete(ctx, uuid.New()))
	})
}
