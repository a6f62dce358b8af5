package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"direct-chat/internal/domain/user"
	chat_errors "direct-chat/pkg/errors"

	"github.com/google/uuid"
)

// userColumns never includes password_hash; the credential stays in the table.
const userColumns = `u.id, u.email, u.full_name, u.profile_pic, u.created_at, u.updated_at,
	(SELECT string_agg(c.contact_user_id::text, ',') FROM user_contacts c WHERE c.user_id = u.id) AS contacts`

type PostgresUserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	u.PrepareCreate(time.Now().UTC())
	return WithTx(ctx, r.db, func(tx DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, email, full_name, profile_pic, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			u.ID, u.Email, u.FullName, u.ProfilePic, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("user %s: %w", u.Email, chat_errors.ErrInvalidInput)
			}
			return err
		}
		for _, contactID := range u.Contacts {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO user_contacts (user_id, contact_user_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, u.ID, contactID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, chat_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetUsersExcept(ctx context.Context, id uuid.UUID) ([]user.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id <> $1`, id)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

func (r *PostgresUserRepository) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id IN (` + buildPlaceholders(1, len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, query, uuidArgs(ids)...)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (user.User, error) {
	var u user.User
	var contacts sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.ProfilePic, &u.CreatedAt, &u.UpdatedAt, &contacts); err != nil {
		return user.User{}, err
	}
	u.Contacts = parseIDList(contacts)
	return u, nil
}

func scanUsers(rows *sql.Rows) ([]user.User, error) {
	defer rows.Close()
	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
