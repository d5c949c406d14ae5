package complaints

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carelink/crm/internal/domain/identity"
	"github.com/carelink/crm/internal/platform/web"
	"github.com/carelink/crm/pkg/pagination"
)

// ReferenceSource supplies the lookup data the complaint form needs.
type ReferenceSource interface {
	ListPatients(ctx context.Context, limit, offset int) ([]*identity.Patient, int, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*identity.User, int, error)
}

type Handler struct {
	svc  *Service
	refs ReferenceSource
}

func NewHandler(svc *Service, refs ReferenceSource) *Handler {
	return &Handler{svc: svc, refs: refs}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/complaints", h.ListComplaints)
	g.GET("/complaints/new", h.NewComplaintForm)
	g.POST("/complaints/new", h.CreateComplaint)
}

type createComplaintRequest struct {
	PatientID   string `json:"patient_id" form:"patient_id"`
	Subject     string `json:"subject" form:"subject"`
	Description string `json:"description" form:"description"`
	Status      string `json:"status" form:"status"`
	Priority    string `json:"priority" form:"priority"`
	AssignedTo  string `json:"assigned_to" form:"assigned_to"`
}

func (h *Handler) CreateComplaint(c echo.Context) error {
	var req createComplaintRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}

	complaint := &Complaint{
		PatientID:   patientID,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.AssignedTo != "" {
		assignee, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid assigned_to")
		}
		complaint.AssignedTo = &assignee
	}
	if err := h.svc.CreateComplaint(c.Request().Context(), complaint); err != nil {
		return web.CreateError(err)
	}
	return web.Created(c, "/complaints", "Complaint filed successfully", complaint)
}

func (h *Handler) ListComplaints(c echo.Context) error {
	pg := pagination.FromContext(c)
	complaints, total, err := h.svc.ListComplaints(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(complaints, total, pg.Limit, pg.Offset))
}

func (h *Handler) NewComplaintForm(c echo.Context) error {
	ctx := c.Request().Context()
	patients, _, err := h.refs.ListPatients(ctx, pagination.MaxLimit, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	users, _, err := h.refs.ListUsers(ctx, pagination.MaxLimit, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patients": patients,
		"users":    users,
	})
}
