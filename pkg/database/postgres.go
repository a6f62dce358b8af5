package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"direct-chat/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Connect opens a pgx backed *sql.DB, checks it answers and creates the
// schema the repositories need.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Connection pool settings
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	if err := HealthCheck(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := repository.InitSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

func HealthCheck(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("database not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}
