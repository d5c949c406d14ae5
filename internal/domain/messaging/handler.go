package messaging

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carelink/crm/internal/domain/identity"
	"github.com/carelink/crm/internal/platform/session"
	"github.com/carelink/crm/internal/platform/web"
	"github.com/carelink/crm/pkg/pagination"
)

// ReferenceSource supplies the recipients the message form offers.
type ReferenceSource interface {
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
	g.GET("/communications", h.ListCommunications)
	g.GET("/communications/new", h.NewCommunicationForm)
	g.POST("/communications/new", h.CreateCommunication)
}

type createCommunicationRequest struct {
	ReceiverID string `json:"receiver_id" form:"receiver_id"`
	Subject    string `json:"subject" form:"subject"`
	Message    string `json:"message" form:"message"`
}

func (h *Handler) CreateCommunication(c echo.Context) error {
	senderID, ok := session.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req createCommunicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid receiver_id")
	}

	comm := &Communication{ReceiverID: receiverID, Message: req.Message}
	if req.Subject != "" {
		comm.Subject = &req.Subject
	}
	if err := h.svc.Send(c.Request().Context(), senderID, comm); err != nil {
		return web.CreateError(err)
	}
	return web.Created(c, "/communications", "Message sent successfully", comm)
}

// ListCommunications only shows the current user's messages.
func (h *Handler) ListCommunications(c echo.Context) error {
	userID, ok := session.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	pg := pagination.FromContext(c)
	communications, total, err := h.svc.Inbox(c.Request().Context(), userID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(communications, total, pg.Limit, pg.Offset))
}

// NewCommunicationForm lists possible recipients, excluding the sender.
func (h *Handler) NewCommunicationForm(c echo.Context) error {
	userID, ok := session.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	users, _, err := h.refs.ListUsers(c.Request().Context(), pagination.MaxLimit, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	recipients := make([]*identity.User, 0, len(users))
	for _, u := range users {
		if u.ID != userID {
			recipients = append(recipients, u)
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"users": recipients})
}
