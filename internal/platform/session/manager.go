package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CookieName is the name of the login session cookie.
const CookieName = "crm_session"

type contextKey string

const (
	// UserIDKey carries the authenticated user's id in the request context.
	UserIDKey contextKey = "user_id"
	// SessionIDKey carries the active session id in the request context.
	SessionIDKey contextKey = "session_id"
)

// Claims is the payload signed into the session cookie. The session id
// is authoritative; the user id is a convenience copy.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	UserID    string `json:"uid"`
}

// Manager issues, resolves and revokes login sessions. The cookie is a
// signed token naming a server-side session row, so logout works even
// if the cookie survives on the client.
type Manager struct {
	repo     Repository
	secret   []byte
	lifetime time.Duration
	secure   bool
	httpOnly bool
}

func NewManager(repo Repository, secret string, lifetime time.Duration, secure, httpOnly bool) *Manager {
	return &Manager{
		repo:     repo,
		secret:   []byte(secret),
		lifetime: lifetime,
		secure:   secure,
		httpOnly: httpOnly,
	}
}

// Issue creates a session row for the user and returns the signed cookie value.
func (m *Manager) Issue(ctx context.Context, userID uuid.UUID) (*Session, string, error) {
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.lifetime),
	}
	if err := m.repo.Create(ctx, s); err != nil {
		return nil, "", err
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
		SessionID: s.ID.String(),
		UserID:    userID.String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, "", fmt.Errorf("signing session token: %w", err)
	}
	return s, signed, nil
}

// Resolve validates a cookie value and loads the live session row.
// Any failure, tampered token, unknown session, expiry, yields an error.
func (m *Manager) Resolve(ctx context.Context, cookieValue string) (*Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookieValue, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	sid, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("malformed session id: %w", err)
	}

	s, err := m.repo.GetByID(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if s.Expired(time.Now().UTC()) {
		return nil, fmt.Errorf("session expired")
	}
	return s, nil
}

// Revoke deletes the session row so the cookie stops working.
func (m *Manager) Revoke(ctx context.Context, sessionID uuid.UUID) error {
	return m.repo.Delete(ctx, sessionID)
}

// SetCookie writes the session cookie onto the response.
func (m *Manager) SetCookie(c echo.Context, value string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func (m *Manager) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware authenticates every request. Browser clients are redirected
// to /login; API clients get a 401.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return unauthenticated(c)
			}

			s, err := m.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				m.ClearCookie(c)
				return unauthenticated(c)
			}

			c.Set(string(UserIDKey), s.UserID)
			c.Set(string(SessionIDKey), s.ID)

			ctx := context.WithValue(c.Request().Context(), UserIDKey, s.UserID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func unauthenticated(c echo.Context) error {
	if wantsHTML(c) {
		return c.Redirect(http.StatusFound, "/login")
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}

func wantsHTML(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMETextHTML)
}

// CurrentUserID returns the authenticated user's id set by Middleware.
func CurrentUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(string(UserIDKey)).(uuid.UUID)
	return id, ok
}

// CurrentSessionID returns the active session id set by Middleware.
func CurrentSessionID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(string(SessionIDKey)).(uuid.UUID)
	return id, ok
}
