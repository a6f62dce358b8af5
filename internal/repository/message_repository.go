package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"direct-chat/internal/domain/message"
	chat_errors "direct-chat/pkg/errors"

	"github.com/google/uuid"
)

const messageColumns = `id, sender_id, receiver_id, text, image, created_at, updated_at`

type PostgresMessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.UpdatedAt = m.CreatedAt
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.SenderID, m.ReceiverID, toNullString(m.Text), toNullString(m.Image), m.CreatedAt, m.UpdatedAt)
	return err
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return message.Message{}, chat_errors.ErrNotFound
		}
		return message.Message{}, err
	}
	return m, nil
}

// GetConversation orders by creation time: Postgres has no insertion order
// of its own to fall back on.
func (r *PostgresMessageRepository) GetConversation(ctx context.Context, a, b uuid.UUID) ([]message.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC`, a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []message.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PostgresMessageRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return chat_errors.ErrNotFound
	}
	return nil
}

func scanMessage(row rowScanner) (message.Message, error) {
	var m message.Message
	var text, image sql.NullString
	if err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &text, &image, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return message.Message{}, err
	}
	m.Text = text.String
	m.Image = image.String
	return m, nil
}
