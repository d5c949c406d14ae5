package clinical

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carelink/crm/internal/domain/identity"
	"github.com/carelink/crm/internal/platform/web"
	"github.com/carelink/crm/pkg/pagination"
)

// ReferenceSource supplies the lookup data the clinical forms need.
type ReferenceSource interface {
	ListPatients(ctx context.Context, limit, offset int) ([]*identity.Patient, int, error)
	ListDoctors(ctx context.Context) ([]*identity.User, error)
}

type Handler struct {
	svc  *Service
	refs ReferenceSource
}

func NewHandler(svc *Service, refs ReferenceSource) *Handler {
	return &Handler{svc: svc, refs: refs}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/medical-records", h.ListMedicalRecords)
	g.GET("/medical-records/new", h.NewMedicalRecordForm)
	g.POST("/medical-records/new", h.CreateMedicalRecord)
	g.GET("/investigations", h.ListInvestigations)
	g.GET("/investigations/new", h.NewInvestigationForm)
	g.POST("/investigations/new", h.CreateInvestigation)
}

// -- Medical records --

type createMedicalRecordRequest struct {
	PatientID    string `json:"patient_id" form:"patient_id"`
	DoctorID     string `json:"doctor_id" form:"doctor_id"`
	Diagnosis    string `json:"diagnosis" form:"diagnosis"`
	Treatment    string `json:"treatment" form:"treatment"`
	Prescription string `json:"prescription" form:"prescription"`
	Date         string `json:"date" form:"date"`
}

func (h *Handler) CreateMedicalRecord(c echo.Context) error {
	var req createMedicalRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
	}
	recordDate, err := web.ParseDate("date", req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	r := &MedicalRecord{
		PatientID:  patientID,
		DoctorID:   doctorID,
		RecordDate: recordDate,
	}
	if req.Diagnosis != "" {
		r.Diagnosis = &req.Diagnosis
	}
	if req.Treatment != "" {
		r.Treatment = &req.Treatment
	}
	if req.Prescription != "" {
		r.Prescription = &req.Prescription
	}
	if err := h.svc.CreateMedicalRecord(c.Request().Context(), r); err != nil {
		return web.CreateError(err)
	}
	return web.Created(c, "/medical-records", "Medical record created successfully", r)
}

func (h *Handler) ListMedicalRecords(c echo.Context) error {
	pg := pagination.FromContext(c)
	records, total, err := h.svc.ListMedicalRecords(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, pg.Limit, pg.Offset))
}

func (h *Handler) NewMedicalRecordForm(c echo.Context) error {
	ctx := c.Request().Context()
	patients, _, err := h.refs.ListPatients(ctx, pagination.MaxLimit, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	doctors, err := h.refs.ListDoctors(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patients": patients,
		"doctors":  doctors,
	})
}

// -- Investigations --

type createInvestigationRequest struct {
	PatientID     string `json:"patient_id" form:"patient_id"`
	Type          string `json:"type" form:"type"`
	Results       string `json:"results" form:"results"`
	Status        string `json:"status" form:"status"`
	ScheduledDate string `json:"scheduled_date" form:"scheduled_date"`
	CompletedDate string `json:"completed_date" form:"completed_date"`
}

func (h *Handler) CreateInvestigation(c echo.Context) error {
	var req createInvestigationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	scheduled, err := web.ParseOptionalDate("scheduled_date", req.ScheduledDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	completed, err := web.ParseOptionalDate("completed_date", req.CompletedDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inv := &Investigation{
		PatientID:     patientID,
		Type:          req.Type,
		Status:        req.Status,
		ScheduledDate: scheduled,
		CompletedDate: completed,
	}
	if req.Results != "" {
		inv.Results = &req.Results
	}
	if err := h.svc.CreateInvestigation(c.Request().Context(), inv); err != nil {
		return web.CreateError(err)
	}
	return web.Created(c, "/investigations", "Investigation created successfully", inv)
}

func (h *Handler) ListInvestigations(c echo.Context) error {
	pg := pagination.FromContext(c)
	investigations, total, err := h.svc.ListInvestigations(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(investigations, total, pg.Limit, pg.Offset))
}

func (h *Handler) NewInvestigationForm(c echo.Context) error {
	patients, _, err := h.refs.ListPatients(c.Request().Context(), pagination.MaxLimit, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"patients": patients})
}
