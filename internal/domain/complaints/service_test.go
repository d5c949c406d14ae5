package complaints

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockComplaintRepo struct {
	complaints map[uuid.UUID]*Complaint
	seq        int
}

func newMockComplaintRepo() *mockComplaintRepo {
	return &mockComplaintRepo{complaints: make(map[uuid.UUID]*Complaint)}
}

func (m *mockComplaintRepo) Create(_ context.Context, c *Complaint) error {
	c.ID = uuid.New()
	m.seq++
	c.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	m.complaints[c.ID] = c
	return nil
}

func (m *mockComplaintRepo) List(_ context.Context, limit, offset int) ([]*Complaint, int, error) {
	all := make([]*Complaint, 0, len(m.complaints))
	for _, c := range m.complaints {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func validComplaint() *Complaint {
	return &Complaint{
		PatientID:   uuid.New(),
		Subject:     "Long wait time",
		Description: "Waited two hours past the appointment slot",
	}
}

func TestCreateComplaint(t *testing.T) {
	svc := NewService(newMockComplaintRepo())

	c := validComplaint()
	if err := svc.CreateComplaint(context.Background(), c); err != nil {
		t.Fatalf("CreateComplaint() error: %v", err)
	}
	if c.Status != "open" {
		t.Errorf("status = %q, want default open", c.Status)
	}
	if c.Priority != "medium" {
		t.Errorf("priority = %q, want default medium", c.Priority)
	}
}

func TestCreateComplaint_Validation(t *testing.T) {
	svc := NewService(newMockComplaintRepo())
	ctx := context.Background()

	missingPatient := validComplaint()
	missingPatient.PatientID = uuid.Nil
	missingSubject := validComplaint()
	missingSubject.Subject = ""
	missingDescription := validComplaint()
	missingDescription.Description = ""
	badStatus := validComplaint()
	badStatus.Status = "ignored"
	badPriority := validComplaint()
	badPriority.Priority = "urgent"

	cases := []struct {
		name string
		c    *Complaint
	}{
		{"missing patient_id", missingPatient},
		{"missing subject", missingSubject},
		{"missing description", missingDescription},
		{"invalid status", badStatus},
		{"invalid priority", badPriority},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.CreateComplaint(ctx, tc.c); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestListComplaints_MostRecentFirst(t *testing.T) {
	svc := NewService(newMockComplaintRepo())
	ctx := context.Background()

	first := validComplaint()
	first.Subject = "First"
	second := validComplaint()
	second.Subject = "Second"
	for _, c := range []*Complaint{first, second} {
		if err := svc.CreateComplaint(ctx, c); err != nil {
			t.Fatalf("CreateComplaint() error: %v", err)
		}
	}

	complaints, total, err := svc.ListComplaints(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListComplaints() error: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if complaints[0].Subject != "Second" {
		t.Errorf("first = %q, want Second", complaints[0].Subject)
	}
}
