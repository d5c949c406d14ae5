package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carelink/crm/internal/platform/session"
	"github.com/carelink/crm/internal/platform/web"
	"github.com/carelink/crm/pkg/pagination"
)

type Handler struct {
	svc      *Service
	sessions *session.Manager
}

func NewHandler(svc *Service, sessions *session.Manager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// RegisterPublicRoutes mounts the routes reachable without a session.
func (h *Handler) RegisterPublicRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/login", h.LoginPage)
	e.POST("/login", h.Login)
}

// RegisterRoutes mounts the session-guarded routes.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/logout", h.Logout)
	g.GET("/users", h.ListUsers)
	g.GET("/users/new", h.NewUserForm)
	g.POST("/users/new", h.CreateUser)
	g.GET("/patients", h.ListPatients)
	g.GET("/patients/new", h.NewPatientForm)
	g.POST("/patients/new", h.CreatePatient)
}

// Root sends authenticated users to the dashboard, everyone else to login.
func (h *Handler) Root(c echo.Context) error {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if _, err := h.sessions.Resolve(c.Request().Context(), cookie.Value); err == nil {
			return c.Redirect(http.StatusFound, "/dashboard")
		}
	}
	return c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) LoginPage(c echo.Context) error {
	resp := map[string]interface{}{"message": "sign in with username and password"}
	if msg, ok := web.TakeFlash(c); ok {
		resp["flash"] = msg
	}
	return c.JSON(http.StatusOK, resp)
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	user, err := h.svc.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "could not verify credentials")
	}

	s, cookie, err := h.sessions.Issue(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not start session")
	}
	h.sessions.SetCookie(c, cookie, s.ExpiresAt)

	if web.IsForm(c) {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) Logout(c echo.Context) error {
	if sid, ok := session.CurrentSessionID(c); ok {
		_ = h.sessions.Revoke(c.Request().Context(), sid)
	}
	h.sessions.ClearCookie(c)
	return c.Redirect(http.StatusFound, "/login")
}

// -- Users --

type createUserRequest struct {
	Username   string `json:"username" form:"username"`
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	Role       string `json:"role" form:"role"`
	Department string `json:"department" form:"department"`
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u := &User{Username: req.Username, Email: req.Email, Role: req.Role}
	if req.Department != "" {
		u.Department = &req.Department
	}
	if err := h.svc.CreateUser(c.Request().Context(), u, req.Password); err != nil {
		return web.CreateError(err)
	}
	return web.Created(c, "/users", "User created successfully", u)
}

func (h *Handler) ListUsers(c echo.Context) error {
	pg := pagination.FromContext(c)
	users, total, err := h.svc.ListUsers(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, pg.Limit, pg.Offset))
}

func (h *Handler) NewUserForm(c echo.Context) error {
	roles := make([]string, 0, len(validRoles))
	for r := range validRoles {
		roles = append(roles, r)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"roles": roles})
}

// -- Patients --

type createPatientRequest struct {
	Name             string `json:"name" form:"name"`
	Email            string `json:"email" form:"email"`
	Phone            string `json:"phone" form:"phone"`
	DateOfBirth      string `json:"date_of_birth" form:"date_of_birth"`
	Address          string `json:"address" form:"address"`
	EmergencyContact string `json:"emergency_contact" form:"emergency_contact"`
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dob, err := web.ParseOptionalDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p := &Patient{Name: req.Name, DateOfBirth: dob}
	if req.Email != "" {
		p.Email = &req.Email
	}
	if req.Phone != "" {
		p.Phone = &req.Phone
	}
	if req.Address != "" {
		p.Address = &req.Address
	}
	if req.EmergencyContact != "" {
		p.EmergencyContact = &req.EmergencyContact
	}
	if err := h.svc.CreatePatient(c.Request().Context(), p); err != nil {
		return web.CreateError(err)
	}
	return web.Created(c, "/patients", "Patient added successfully", p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, total, err := h.svc.ListPatients(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, pg.Limit, pg.Offset))
}

func (h *Handler) NewPatientForm(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"fields": []string{"name", "email", "phone", "date_of_birth", "address", "emergency_contact"},
	})
}
