package complaints

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type complaintRepoPG struct{ pool *pgxpool.Pool }

func NewComplaintRepoPG(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepoPG{pool: pool}
}

const complaintCols = `id, patient_id, subject, description, status, priority, assigned_to, created_at, resolved_at`

func scanComplaint(row pgx.Row) (*Complaint, error) {
	var c Complaint
	err := row.Scan(&c.ID, &c.PatientID, &c.Subject, &c.Description, &c.Status, &c.Priority, &c.AssignedTo, &c.CreatedAt, &c.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *complaintRepoPG) Create(ctx context.Context, c *Complaint) error {
	c.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO complaints (id, patient_id, subject, description, status, priority, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		c.ID, c.PatientID, c.Subject, c.Description, c.Status, c.Priority, c.AssignedTo).Scan(&c.CreatedAt)
}

func (r *complaintRepoPG) List(ctx context.Context, limit, offset int) ([]*Complaint, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+complaintCols+` FROM complaints ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
