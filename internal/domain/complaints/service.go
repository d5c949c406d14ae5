package complaints

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	complaints ComplaintRepository
}

func NewService(complaints ComplaintRepository) *Service {
	return &Service{complaints: complaints}
}

var validComplaintStatuses = map[string]bool{
	"open": true, "in_progress": true, "resolved": true, "closed": true,
}

var validPriorities = map[string]bool{
	"low": true, "medium": true, "high": true,
}

func (s *Service) CreateComplaint(ctx context.Context, c *Complaint) error {
	if c.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if c.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if c.Description == "" {
		return fmt.Errorf("description is required")
	}
	if c.Status == "" {
		c.Status = "open"
	}
	if !validComplaintStatuses[c.Status] {
		return fmt.Errorf("invalid complaint status: %s", c.Status)
	}
	if c.Priority == "" {
		c.Priority = "medium"
	}
	if !validPriorities[c.Priority] {
		return fmt.Errorf("invalid priority: %s", c.Priority)
	}
	return s.complaints.Create(ctx, c)
}

func (s *Service) ListComplaints(ctx context.Context, limit, offset int) ([]*Complaint, int, error) {
	return s.complaints.List(ctx, limit, offset)
}
