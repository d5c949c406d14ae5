package clinical

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	records        MedicalRecordRepository
	investigations InvestigationRepository
}

func NewService(records MedicalRecordRepository, investigations InvestigationRepository) *Service {
	return &Service{records: records, investigations: investigations}
}

// -- Medical records --

func (s *Service) CreateMedicalRecord(ctx context.Context, r *MedicalRecord) error {
	if r.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if r.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if r.RecordDate.IsZero() {
		return fmt.Errorf("date is required")
	}
	return s.records.Create(ctx, r)
}

func (s *Service) ListMedicalRecords(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.records.List(ctx, limit, offset)
}

// -- Investigations --

var validInvestigationStatuses = map[string]bool{
	"pending": true, "in_progress": true, "completed": true, "cancelled": true,
}

func (s *Service) CreateInvestigation(ctx context.Context, inv *Investigation) error {
	if inv.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if inv.Type == "" {
		return fmt.Errorf("type is required")
	}
	if inv.Status == "" {
		inv.Status = "pending"
	}
	if !validInvestigationStatuses[inv.Status] {
		return fmt.Errorf("invalid investigation status: %s", inv.Status)
	}
	return s.investigations.Create(ctx, inv)
}

func (s *Service) ListInvestigations(ctx context.Context, limit, offset int) ([]*Investigation, int, error) {
	return s.investigations.List(ctx, limit, offset)
}
