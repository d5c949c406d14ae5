package complaints

import (
	"context"
)

type ComplaintRepository interface {
	Create(ctx context.Context, c *Complaint) error
	List(ctx context.Context, limit, offset int) ([]*Complaint, int, error)
}
