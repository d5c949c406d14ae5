package marketing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type campaignRepoPG struct{ pool *pgxpool.Pool }

func NewCampaignRepoPG(pool *pgxpool.Pool) CampaignRepository {
	return &campaignRepoPG{pool: pool}
}

const campaignCols = `id, name, type, template, target_audience, status, scheduled_date, created_at`

func scanCampaign(row pgx.Row) (*Campaign, error) {
	var c Campaign
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Template, &c.TargetAudience, &c.Status, &c.ScheduledDate, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *campaignRepoPG) Create(ctx context.Context, c *Campaign) error {
	c.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (id, name, type, template, target_audience, status, scheduled_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		c.ID, c.Name, c.Type, c.Template, c.TargetAudience, c.Status, c.ScheduledDate).Scan(&c.CreatedAt)
}

func (r *campaignRepoPG) List(ctx context.Context, limit, offset int) ([]*Campaign, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM campaigns`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+campaignCols+` FROM campaigns ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
