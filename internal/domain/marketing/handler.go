package marketing

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carelink/crm/internal/platform/web"
	"github.com/carelink/crm/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/campaigns", h.ListCampaigns)
	g.GET("/campaigns/new", h.NewCampaignForm)
	g.POST("/campaigns/new", h.CreateCampaign)
}

type createCampaignRequest struct {
	Name           string `json:"name" form:"name"`
	Type           string `json:"type" form:"type"`
	Template       string `json:"template" form:"template"`
	TargetAudience string `json:"target_audience" form:"target_audience"`
	Status         string `json:"status" form:"status"`
	ScheduledDate  string `json:"scheduled_date" form:"scheduled_date"`
}

func (h *Handler) CreateCampaign(c echo.Context) error {
	var req createCampaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	scheduled, err := web.ParseOptionalDateTime("scheduled_date", req.ScheduledDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	campaign := &Campaign{
		Name:          req.Name,
		Type:          req.Type,
		Status:        req.Status,
		ScheduledDate: scheduled,
	}
	if req.Template != "" {
		campaign.Template = &req.Template
	}
	if req.TargetAudience != "" {
		campaign.TargetAudience = &req.TargetAudience
	}
	if err := h.svc.CreateCampaign(c.Request().Context(), campaign); err != nil {
		return web.CreateError(err)
	}
	return web.Created(c, "/campaigns", "Campaign created successfully", campaign)
}

func (h *Handler) ListCampaigns(c echo.Context) error {
	pg := pagination.FromContext(c)
	campaigns, total, err := h.svc.ListCampaigns(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(campaigns, total, pg.Limit, pg.Offset))
}

func (h *Handler) NewCampaignForm(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"types": CampaignTypes()})
}
