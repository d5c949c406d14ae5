package billing

import (
	"context"
)

type BillRepository interface {
	Create(ctx context.Context, b *Bill) error
	List(ctx context.Context, limit, offset int) ([]*Bill, int, error)
	SumPaidAmount(ctx context.Context) (float64, error)
}
