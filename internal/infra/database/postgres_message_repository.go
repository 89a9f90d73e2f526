package database

import (
	"context"
	"database/sql"
	"fmt"

	"tutorhub/internal/domain/message"
)

const messageColumns = `id, sender_id, recipient_id, body, read_at, created_at`

type PostgresMessageRepository struct {
	db *sql.DB
}

func NewPostgresMessageRepository(db *sql.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	query := `INSERT INTO messages (id, sender_id, recipient_id, body)
               VALUES ($1, $2, $3, $4)
               RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, m.ID, m.SenderID, m.RecipientID, m.Body).Scan(&m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

func (r *PostgresMessageRepository) ListBetween(ctx context.Context, a, b string, p message.Page) ([]*message.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
               WHERE ((sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1))`
	args := []any{a, b}
	if !p.Before.IsZero() {
		args = append(args, p.Before)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	args = append(args, p.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]*message.Message, 0)
	for rows.Next() {
		m := &message.Message{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return msgs, nil
}

func (r *PostgresMessageRepository) MarkRead(ctx context.Context, recipientID, senderID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read_at = NOW() WHERE recipient_id = $1 AND sender_id = $2 AND read_at IS NULL`,
		recipientID, senderID)
	if err != nil {
		return 0, fmt.Errorf("error marking messages read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading affected rows: %w", err)
	}
	return n, nil
}

func (r *PostgresMessageRepository) UnreadBySender(ctx context.Context, recipientID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sender_id, COUNT(*) FROM messages WHERE recipient_id = $1 AND read_at IS NULL GROUP BY sender_id`,
		recipientID)
	if err != nil {
		return nil, fmt.Errorf("error counting unread messages: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var sender string
		var n int
		if err := rows.Scan(&sender, &n); err != nil {
			return nil, fmt.Errorf("error scanning unread count: %w", err)
		}
		counts[sender] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unread counts: %w", err)
	}
	return counts, nil
}
