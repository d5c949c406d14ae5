package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	appointments AppointmentRepository
}

func NewService(appointments AppointmentRepository) *Service {
	return &Service{appointments: appointments}
}

var validAppointmentStatuses = map[string]bool{
	"scheduled": true, "completed": true, "cancelled": true, "no-show": true,
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if a.AppointmentDate.IsZero() {
		return fmt.Errorf("appointment_date is required")
	}
	if a.Status == "" {
		a.Status = "scheduled"
	}
	if !validAppointmentStatuses[a.Status] {
		return fmt.Errorf("invalid appointment status: %s", a.Status)
	}
	return s.appointments.Create(ctx, a)
}

func (s *Service) ListAppointments(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.List(ctx, limit, offset)
}

func (s *Service) RecentAppointments(ctx context.Context, n int) ([]*Appointment, error) {
	return s.appointments.ListRecent(ctx, n)
}

func (s *Service) CountAppointments(ctx context.Context) (int, error) {
	return s.appointments.Count(ctx)
}

func (s *Service) CountByStatus(ctx context.Context, status string) (int, error) {
	return s.appointments.CountByStatus(ctx, status)
}
