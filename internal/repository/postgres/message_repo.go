package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markod/fitlink/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// Create inserts the message with a server-assigned timestamp and writes
// it back into msg.
func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, partnership_id, sender_id, display_name, text, read)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		msg.ID, msg.PartnershipID, msg.SenderID, msg.DisplayName, msg.Text, msg.Read,
	).Scan(&msg.CreatedAt)
	return mapError(err)
}

func (r *MessageRepo) ListRecent(ctx context.Context, partnershipID uuid.UUID, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, partnership_id, sender_id, display_name, text, read, created_at
		FROM messages
		WHERE partnership_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`
	return r.listMessages(ctx, query, partnershipID, limit)
}

func (r *MessageRepo) ListUnread(ctx context.Context, partnershipID, readerID uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT id, partnership_id, sender_id, display_name, text, read, created_at
		FROM messages
		WHERE partnership_id = $1 AND sender_id <> $2 AND NOT read
		ORDER BY created_at`
	return r.listMessages(ctx, query, partnershipID, readerID)
}

func (r *MessageRepo) CountUnread(ctx context.Context, partnershipID, readerID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM messages
		WHERE partnership_id = $1 AND sender_id <> $2 AND NOT read`,
		partnershipID, readerID,
	).Scan(&n)
	return n, mapError(err)
}

func (r *MessageRepo) MarkRead(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `UPDATE messages SET read = true WHERE id = ANY($1)`, ids)
	return mapError(err)
}

func (r *MessageRepo) listMessages(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID, &m.PartnershipID, &m.SenderID, &m.DisplayName, &m.Text, &m.Read, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
