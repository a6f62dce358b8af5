package database

import (
	"context"
	"errors"
	"fmt"

	"direct-chat/internal/domain/message"
	"direct-chat/internal/domain/user"
	"direct-chat/internal/repository"
	chat_errors "direct-chat/pkg/errors"
	"direct-chat/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedConfig holds configuration for seeding development data
type SeedConfig struct {
	Password     string
	UserCount    int
	SeedMessages bool
}

func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		Password:     "Test@123!",
		UserCount:    5,
		SeedMessages: true,
	}
}

type SeedResult struct {
	Users    []user.User
	Messages []message.Message
}

var testUserData = []struct {
	email    string
	fullName string
}{
	{"alice@test.com", "Alice Johnson"},
	{"bob@test.com", "Bob Smith"},
	{"charlie@test.com", "Charlie Brown"},
	{"diana@test.com", "Diana Prince"},
	{"edward@test.com", "Edward Chen"},
	{"fiona@test.com", "Fiona Green"},
	{"george@test.com", "George Miller"},
	{"hannah@test.com", "Hannah White"},
}

// Seed creates development users and a short conversation between the first
// two. Every user lists the users seeded before it as contacts. Users whose
// email already exists are skipped.
func Seed(ctx context.Context, users repository.UserRepository, messages repository.MessageRepository, cfg *SeedConfig, l *logger.Logger) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}
	if l == nil {
		l = logger.NewNop()
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result := &SeedResult{}
	var contacts []uuid.UUID
	for i := 0; i < cfg.UserCount && i < len(testUserData); i++ {
		data := testUserData[i]
		u := &user.User{
			Email:        data.email,
			FullName:     data.fullName,
			PasswordHash: string(hashedPassword),
			Contacts:     append([]uuid.UUID(nil), contacts...),
		}
		if err := users.Create(ctx, u); err != nil {
			if errors.Is(err, chat_errors.ErrInvalidInput) {
				l.Infof("Test user %s already exists, skipping", data.email)
				continue
			}
			return nil, fmt.Errorf("failed to create test user %s: %w", data.email, err)
		}
		contacts = append(contacts, u.ID)
		result.Users = append(result.Users, u.Public())
		l.Infof("Test user seeded: %s (%s)", data.email, u.ID)
	}

	if !cfg.SeedMessages || messages == nil || len(result.Users) < 2 {
		return result, nil
	}

	a, b := result.Users[0].ID, result.Users[1].ID
	for _, m := range []message.Message{
		{SenderID: b, ReceiverID: a, Text: "Hey, are you around?"},
		{SenderID: a, ReceiverID: b, Text: "Yes, what's up?"},
	} {
		if err := messages.Create(ctx, &m); err != nil {
			return nil, fmt.Errorf("failed to seed message: %w", err)
		}
		result.Messages = append(result.Messages, m)
	}
	return result, nil
}
