package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carelink/crm/internal/domain/identity"
)

type stubRefs struct {
	patients []*identity.Patient
}

func (s *stubRefs) ListPatients(_ context.Context, _, _ int) ([]*identity.Patient, int, error) {
	return s.patients, len(s.patients), nil
}

func newTestHandler() (*Handler, *stubRefs) {
	refs := &stubRefs{patients: []*identity.Patient{{ID: uuid.New(), Name: "Jane Doe"}}}
	return NewHandler(NewService(newMockBillRepo()), refs), refs
}

func TestCreateBill_JSON(t *testing.T) {
	h, refs := newTestHandler()
	e := echo.New()

	body := `{"patient_id":"` + refs.patients[0].ID.String() + `","amount":"120.50","description":"Consultation","due_date":"2026-10-01"}`
	req := httptest.NewRequest(http.MethodPost, "/billing/new", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateBill(c); err != nil {
		t.Fatalf("CreateBill() error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	var got Bill
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Amount != 120.50 {
		t.Errorf("amount = %v, want 120.50", got.Amount)
	}
	if got.Status != "pending" {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.DueDate == nil {
		t.Error("expected due_date to be set")
	}
}

func TestCreateBill_Form(t *testing.T) {
	h, refs := newTestHandler()
	e := echo.New()

	form := url.Values{
		"patient_id": {refs.patients[0].ID.String()},
		"amount":     {"75"},
	}
	req := httptest.NewRequest(http.MethodPost, "/billing/new", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateBill(c); err != nil {
		t.Fatalf("CreateBill() error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/billing" {
		t.Errorf("location = %q, want /billing", loc)
	}
}

func TestCreateBill_BadInput(t *testing.T) {
	h, refs := newTestHandler()
	e := echo.New()
	pid := refs.patients[0].ID.String()

	cases := []struct {
		name string
		body string
	}{
		{"missing amount", `{"patient_id":"` + pid + `"}`},
		{"malformed amount", `{"patient_id":"` + pid + `","amount":"lots"}`},
		{"malformed patient_id", `{"patient_id":"abc","amount":"10"}`},
		{"malformed due_date", `{"patient_id":"` + pid + `","amount":"10","due_date":"soon"}`},
		{"malformed appointment_id", `{"patient_id":"` + pid + `","amount":"10","appointment_id":"abc"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/billing/new", strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.CreateBill(c)
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %T", err)
			}
			if he.Code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400", he.Code)
			}
		})
	}
}

func TestListBills_Handler(t *testing.T) {
	h, refs := newTestHandler()
	e := echo.New()
	ctx := context.Background()

	if err := h.svc.CreateBill(ctx, &Bill{PatientID: refs.patients[0].ID, Amount: 10}); err != nil {
		t.Fatalf("CreateBill() error: %v", err)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/billing", nil), rec)

	if err := h.ListBills(c); err != nil {
		t.Fatalf("ListBills() error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
