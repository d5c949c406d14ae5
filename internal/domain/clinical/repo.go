package clinical

import (
	"context"
)

type MedicalRecordRepository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	List(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error)
}

type InvestigationRepository interface {
	Create(ctx context.Context, inv *Investigation) error
	List(ctx context.Context, limit, offset int) ([]*Investigation, int, error)
}
