package scheduling

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carelink/crm/internal/domain/identity"
	"github.com/carelink/crm/internal/platform/web"
	"github.com/carelink/crm/pkg/pagination"
)

// ReferenceSource supplies the lookup data the appointment form needs.
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
	g.GET("/appointments", h.ListAppointments)
	g.GET("/appointments/new", h.NewAppointmentForm)
	g.POST("/appointments/new", h.CreateAppointment)
}

type createAppointmentRequest struct {
	PatientID       string `json:"patient_id" form:"patient_id"`
	DoctorID        string `json:"doctor_id" form:"doctor_id"`
	AppointmentDate string `json:"appointment_date" form:"appointment_date"`
	Status          string `json:"status" form:"status"`
	Notes           string `json:"notes" form:"notes"`
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var req createAppointmentRequest
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
	when, err := web.ParseDateTime("appointment_date", req.AppointmentDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a := &Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: when,
		Status:          req.Status,
	}
	if req.Notes != "" {
		a.Notes = &req.Notes
	}
	if err := h.svc.CreateAppointment(c.Request().Context(), a); err != nil {
		return web.CreateError(err)
	}
	return web.Created(c, "/appointments", "Appointment created successfully", a)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	appointments, total, err := h.svc.ListAppointments(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(appointments, total, pg.Limit, pg.Offset))
}

// NewAppointmentForm returns the patients and doctors the form offers.
func (h *Handler) NewAppointmentForm(c echo.Context) error {
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
