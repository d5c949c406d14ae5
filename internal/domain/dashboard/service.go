package dashboard

import (
	"context"
	"fmt"

	"github.com/carelink/crm/internal/domain/scheduling"
)

const recentAppointmentCount = 5

// PatientCounter reports the total number of registered patients.
type PatientCounter interface {
	CountPatients(ctx context.Context) (int, error)
}

// AppointmentSource supplies appointment counts and the recent list.
type AppointmentSource interface {
	CountAppointments(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	RecentAppointments(ctx context.Context, n int) ([]*scheduling.Appointment, error)
}

// RevenueSource reports collected revenue.
type RevenueSource interface {
	PaidRevenue(ctx context.Context) (float64, error)
}

// Overview is the aggregate snapshot shown on the landing page.
type Overview struct {
	TotalPatients       int                       `json:"total_patients"`
	TotalAppointments   int                       `json:"total_appointments"`
	PendingAppointments int                       `json:"pending_appointments"`
	TotalRevenue        float64                   `json:"total_revenue"`
	RecentAppointments  []*scheduling.Appointment `json:"recent_appointments"`
}

type Service struct {
	patients     PatientCounter
	appointments AppointmentSource
	revenue      RevenueSource
}

func NewService(patients PatientCounter, appointments AppointmentSource, revenue RevenueSource) *Service {
	return &Service{patients: patients, appointments: appointments, revenue: revenue}
}

// Overview gathers the counts, collected revenue, and the five most
// recent appointments by appointment date.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	o := &Overview{RecentAppointments: []*scheduling.Appointment{}}

	var err error
	if o.TotalPatients, err = s.patients.CountPatients(ctx); err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	if o.TotalAppointments, err = s.appointments.CountAppointments(ctx); err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	if o.PendingAppointments, err = s.appointments.CountByStatus(ctx, "scheduled"); err != nil {
		return nil, fmt.Errorf("count scheduled appointments: %w", err)
	}
	if o.TotalRevenue, err = s.revenue.PaidRevenue(ctx); err != nil {
		return nil, fmt.Errorf("sum paid revenue: %w", err)
	}

	recent, err := s.appointments.RecentAppointments(ctx, recentAppointmentCount)
	if err != nil {
		return nil, fmt.Errorf("list recent appointments: %w", err)
	}
	if recent != nil {
		o.RecentAppointments = recent
	}
	return o, nil
}
