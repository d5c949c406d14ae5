package messaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type communicationRepoPG struct{ pool *pgxpool.Pool }

func NewCommunicationRepoPG(pool *pgxpool.Pool) CommunicationRepository {
	return &communicationRepoPG{pool: pool}
}

const commCols = `id, sender_id, receiver_id, subject, message, is_read, created_at`

func scanCommunication(row pgx.Row) (*Communication, error) {
	var c Communication
	err := row.Scan(&c.ID, &c.SenderID, &c.ReceiverID, &c.Subject, &c.Message, &c.IsRead, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *communicationRepoPG) Create(ctx context.Context, c *Communication) error {
	c.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO communications (id, sender_id, receiver_id, subject, message, is_read)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		c.ID, c.SenderID, c.ReceiverID, c.Subject, c.Message, c.IsRead).Scan(&c.CreatedAt)
}

func (r *communicationRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Communication, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM communications WHERE sender_id = $1 OR receiver_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+commCols+` FROM communications
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Communication
	for rows.Next() {
		c, err := scanCommunication(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
