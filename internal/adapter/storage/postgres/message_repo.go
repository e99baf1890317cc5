package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"swapmarket/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MessageRepo implements ports.MessageRepository.
type MessageRepo struct {
	pool Pool
}

// NewMessageRepo creates a new MessageRepo.
func NewMessageRepo(pool Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// Create inserts a new chat message.
func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO messages (id, transaction_id, sender_id, body, created_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.TransactionID, m.SenderID, m.Body, m.CreatedAt, m.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// GetByID fetches a message by its UUID, deleted or not.
func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query := `SELECT id, transaction_id, sender_id, body, created_at, deleted_at
		FROM messages WHERE id = $1`

	m := &domain.Message{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.TransactionID, &m.SenderID, &m.Body, &m.CreatedAt, &m.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get message by id: %w", err)
	}
	return m, nil
}

// ListByTransaction returns the non-deleted messages of a thread,
// oldest-first.
func (r *MessageRepo) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.Message, error) {
	query := `SELECT id, transaction_id, sender_id, body, created_at, deleted_at
		FROM messages WHERE transaction_id = $1 AND deleted_at IS NULL ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		m := domain.Message{}
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.SenderID, &m.Body, &m.CreatedAt, &m.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return msgs, nil
}

// SoftDelete marks a message deleted without removing the row.
func (r *MessageRepo) SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	query := `UPDATE messages SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, deletedAt, id)
	if err != nil {
		return fmt.Errorf("soft delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("message not found: %s", id)
	}
	return nil
}
