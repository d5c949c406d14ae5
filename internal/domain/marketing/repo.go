package marketing

import (
	"context"
)

type CampaignRepository interface {
	Create(ctx context.Context, c *Campaign) error
	List(ctx context.Context, limit, offset int) ([]*Campaign, int, error)
}
