package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"direct-chat/internal/domain/message"
	"direct-chat/internal/domain/user"
	chat_errors "direct-chat/pkg/errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection    = "users"
	messagesCollection = "messages"
)

// withoutPassword mirrors a "-password" select on every user read.
var withoutPassword = bson.M{"password": 0}

type userDocument struct {
	ID         string    `bson:"_id"`
	Email      string    `bson:"email"`
	FullName   string    `bson:"fullName"`
	ProfilePic string    `bson:"profilePic"`
	Password   string    `bson:"password,omitempty"`
	Contacts   []string  `bson:"contacts"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

type messageDocument struct {
	ID         string    `bson:"_id"`
	SenderID   string    `bson:"senderId"`
	ReceiverID string    `bson:"receiverId"`
	Text       string    `bson:"text,omitempty"`
	Image      string    `bson:"image,omitempty"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

// ConnectMongo connects, pings the primary and returns the named database.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client.Database(database), nil
}

// EnsureMongoIndexes creates the indexes the repositories query on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := db.Collection(messagesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "senderId", Value: 1}, {Key: "receiverId", Value: 1}},
		Options: options.Index().SetName("idx_sender_receiver"),
	}); err != nil {
		return fmt.Errorf("messages index: %w", err)
	}
	return nil
}

type MongoUserRepository struct {
	db *mongo.Database
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{db: db}
}

func (r *MongoUserRepository) collection() *mongo.Collection {
	return r.db.Collection(usersCollection)
}

func (r *MongoUserRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}

func (r *MongoUserRepository) Create(ctx context.Context, u *user.User) error {
	u.PrepareCreate(time.Now().UTC())
	doc := toUserDocument(*u)
	if _, err := r.collection().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", u.Email, chat_errors.ErrInvalidInput)
		}
		return err
	}
	return nil
}

func (r *MongoUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	var doc userDocument
	err := r.collection().FindOne(ctx, bson.M{"_id": id.String()},
		options.FindOne().SetProjection(withoutPassword)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, chat_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return doc.toDomain(), nil
}

func (r *MongoUserRepository) GetUsersExcept(ctx context.Context, id uuid.UUID) ([]user.User, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$ne": id.String()}})
}

func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": keys}})
}

func (r *MongoUserRepository) find(ctx context.Context, filter bson.M) ([]user.User, error) {
	cur, err := r.collection().Find(ctx, filter, options.Find().SetProjection(withoutPassword))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toDomain())
	}
	return users, nil
}

type MongoMessageRepository struct {
	db *mongo.Database
}

func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{db: db}
}

func (r *MongoMessageRepository) collection() *mongo.Collection {
	return r.db.Collection(messagesCollection)
}

func (r *MongoMessageRepository) Create(ctx context.Context, m *message.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.UpdatedAt = m.CreatedAt
	_, err := r.collection().InsertOne(ctx, toMessageDocument(*m))
	return err
}

func (r *MongoMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	var doc messageDocument
	if err := r.collection().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return message.Message{}, chat_errors.ErrNotFound
		}
		return message.Message{}, err
	}
	return doc.toDomain(), nil
}

// GetConversation applies no sort: documents come back in natural order.
func (r *MongoMessageRepository) GetConversation(ctx context.Context, a, b uuid.UUID) ([]message.Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"senderId": a.String(), "receiverId": b.String()},
		{"senderId": b.String(), "receiverId": a.String()},
	}}
	cur, err := r.collection().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []messageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	messages := make([]message.Message, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, doc.toDomain())
	}
	return messages, nil
}

func (r *MongoMessageRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return chat_errors.ErrNotFound
	}
	return nil
}

func toUserDocument(u user.User) userDocument {
	contacts := make([]string, len(u.Contacts))
	for i, c := range u.Contacts {
		contacts[i] = c.String()
	}
	return userDocument{
		ID:         u.ID.String(),
		Email:      u.Email,
		FullName:   u.FullName,
		ProfilePic: u.ProfilePic,
		Password:   u.PasswordHash,
		Contacts:   contacts,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (d userDocument) toDomain() user.User {
	contacts := make([]uuid.UUID, 0, len(d.Contacts))
	for _, c := range d.Contacts {
		if id, err := uuid.Parse(c); err == nil {
			contacts = append(contacts, id)
		}
	}
	id, _ := uuid.Parse(d.ID)
	return user.User{
		ID:         id,
		Email:      d.Email,
		FullName:   d.FullName,
		ProfilePic: d.ProfilePic,
		Contacts:   contacts,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func toMessageDocument(m message.Message) messageDocument {
	return messageDocument{
		ID:         m.ID.String(),
		SenderID:   m.SenderID.String(),
		ReceiverID: m.ReceiverID.String(),
		Text:       m.Text,
		Image:      m.Image,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (d messageDocument) toDomain() message.Message {
	id, _ := uuid.Parse(d.ID)
	sender, _ := uuid.Parse(d.SenderID)
	receiver, _ := uuid.Parse(d.ReceiverID)
	return message.Message{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       d.Text,
		Image:      d.Image,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
