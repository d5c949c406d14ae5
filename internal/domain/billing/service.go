package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	bills BillRepository
}

func NewService(bills BillRepository) *Service {
	return &Service{bills: bills}
}

var validBillStatuses = map[string]bool{
	"pending": true, "paid": true, "overdue": true, "cancelled": true,
}

func (s *Service) CreateBill(ctx context.Context, b *Bill) error {
	if b.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if b.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	if b.Status == "" {
		b.Status = "pending"
	}
	if !validBillStatuses[b.Status] {
		return fmt.Errorf("invalid billing status: %s", b.Status)
	}
	return s.bills.Create(ctx, b)
}

func (s *Service) ListBills(ctx context.Context, limit, offset int) ([]*Bill, int, error) {
	return s.bills.List(ctx, limit, offset)
}

// PaidRevenue sums the amounts of paid bills. Empty table yields 0.
func (s *Service) PaidRevenue(ctx context.Context) (float64, error) {
	return s.bills.SumPaidAmount(ctx)
}
