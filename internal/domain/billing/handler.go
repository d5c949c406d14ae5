package billing

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carelink/crm/internal/domain/identity"
	"github.com/carelink/crm/internal/platform/web"
	"github.com/carelink/crm/pkg/pagination"
)

// ReferenceSource supplies the lookup data the billing form needs.
type ReferenceSource interface {
	ListPatients(ctx context.Context, limit, offset int) ([]*identity.Patient, int, error)
}

type Handler struct {
	svc  *Service
	refs ReferenceSource
}

func NewHandler(svc *Service, refs ReferenceSource) *Handler {
	return &Handler{svc: svc, refs: refs}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/billing", h.ListBills)
	g.GET("/billing/new", h.NewBillForm)
	g.POST("/billing/new", h.CreateBill)
}

type createBillRequest struct {
	PatientID     string `json:"patient_id" form:"patient_id"`
	AppointmentID string `json:"appointment_id" form:"appointment_id"`
	Amount        string `json:"amount" form:"amount"`
	Description   string `json:"description" form:"description"`
	Status        string `json:"status" form:"status"`
	DueDate       string `json:"due_date" form:"due_date"`
}

func (h *Handler) CreateBill(c echo.Context) error {
	var req createBillRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	if req.Amount == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "amount is required")
	}
	amount, err := strconv.ParseFloat(req.Amount, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
	}
	dueDate, err := web.ParseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	b := &Bill{
		PatientID: patientID,
		Amount:    amount,
		Status:    req.Status,
		DueDate:   dueDate,
	}
	if req.AppointmentID != "" {
		apptID, err := uuid.Parse(req.AppointmentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment_id")
		}
		b.AppointmentID = &apptID
	}
	if req.Description != "" {
		b.Description = &req.Description
	}
	if err := h.svc.CreateBill(c.Request().Context(), b); err != nil {
		return web.CreateError(err)
	}
	return web.Created(c, "/billing", "Bill created successfully", b)
}

func (h *Handler) ListBills(c echo.Context) error {
	pg := pagination.FromContext(c)
	bills, total, err := h.svc.ListBills(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(bills, total, pg.Limit, pg.Offset))
}

func (h *Handler) NewBillForm(c echo.Context) error {
	patients, _, err := h.refs.ListPatients(c.Request().Context(), pagination.MaxLimit, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"patients": patients})
}
