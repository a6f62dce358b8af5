package database

import (
	"context"
	"fmt"

	"direct-chat/config"
	"direct-chat/internal/repository"
)

// Stores bundles the repositories selected by STORE_DRIVER.
type Stores struct {
	Driver   string
	Users    repository.UserRepository
	Messages repository.MessageRepository
	// Ping reports whether the backing store is reachable.
	Ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the configured store and prepares its schema or indexes.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		db, err := repository.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			_ = db.Client().Disconnect(ctx)
			return nil, err
		}
		users := repository.NewMongoUserRepository(db)
		return &Stores{
			Driver:   cfg.StoreDriver,
			Users:    users,
			Messages: repository.NewMongoMessageRepository(db),
			Ping:     users.Ping,
			close:    db.Client().Disconnect,
		}, nil

	case config.StorePostgres:
		db, err := Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		return &Stores{
			Driver:   cfg.StoreDriver,
			Users:    repository.NewUserRepository(db),
			Messages: repository.NewMessageRepository(db),
			Ping:     func(ctx context.Context) error { return HealthCheck(ctx, db) },
			close:    func(context.Context) error { return db.Close() },
		}, nil

	case config.StoreMemory:
		users := repository.NewMemoryUserRepository()
		return &Stores{
			Driver:   cfg.StoreDriver,
			Users:    users,
			Messages: repository.NewMemoryMessageRepository(),
			Ping:     users.Ping,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
